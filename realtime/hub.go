package realtime

import (
	"context"
	"sort"
	"sync"

	"bff-gateway/domain"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
)

type ConnectionMetrics interface {
	ConnectionOpened()
	ConnectionClosed()
}

// Hub keeps room membership of live connections.
// Delivery is best effort: a connection with a full buffer misses the event.
type Hub struct {
	logger  log.Logger
	metrics ConnectionMetrics

	lock  *sync.RWMutex
	rooms map[string]map[*Conn]struct{}
	conns map[*Conn]struct{}
}

func NewHub(logger log.Logger, metrics ConnectionMetrics) *Hub {
	return &Hub{
		logger:  logger,
		metrics: metrics,
		lock:    &sync.RWMutex{},
		rooms:   make(map[string]map[*Conn]struct{}),
		conns:   make(map[*Conn]struct{}),
	}
}

func (h *Hub) Register(conn *Conn) {
	h.lock.Lock()
	h.conns[conn] = struct{}{}
	h.lock.Unlock()

	h.metrics.ConnectionOpened()
	h.Join(conn, domain.RoomGlobal)
}

func (h *Hub) Join(conn *Conn, rooms ...string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.conns[conn]; !ok {
		return
	}
	for _, room := range rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Conn]struct{})
			h.rooms[room] = members
		}
		members[conn] = struct{}{}
		conn.rooms[room] = struct{}{}
	}
}

func (h *Hub) Unregister(conn *Conn) {
	h.lock.Lock()
	_, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
		for room := range conn.rooms {
			members := h.rooms[room]
			delete(members, conn)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
		conn.rooms = make(map[string]struct{})
	}
	h.lock.Unlock()

	if ok {
		h.metrics.ConnectionClosed()
	}
}

func (h *Hub) RoomsOf(conn *Conn) []string {
	h.lock.RLock()
	defer h.lock.RUnlock()

	rooms := make([]string, 0, len(conn.rooms))
	for room := range conn.rooms {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

// Publish sends the event once to every connection joined to any of the rooms.
// Returns the number of connections the event was queued for.
func (h *Hub) Publish(ctx context.Context, event string, data any, rooms ...string) int {
	payload, err := json.Marshal(domain.Event{Name: event, Data: data})
	if err != nil {
		h.logger.Error(ctx, errors.WithMessagef(err, "realtime: marshal %s", event))
		return 0
	}

	h.lock.RLock()
	targets := make(map[*Conn]struct{})
	for _, room := range rooms {
		for conn := range h.rooms[room] {
			targets[conn] = struct{}{}
		}
	}
	h.lock.RUnlock()

	delivered := 0
	for conn := range targets {
		if conn.enqueue(payload) {
			delivered++
			continue
		}
		h.logger.Debug(ctx, "realtime: connection buffer is full, event dropped",
			log.String("connId", conn.Id()),
			log.String("event", event),
		)
	}
	return delivered
}

func (h *Hub) Close() {
	h.lock.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.lock.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}
