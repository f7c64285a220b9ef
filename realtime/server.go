package realtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bff-gateway/domain"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
	"golang.org/x/time/rate"
)

type Settings struct {
	SendBufferSize int
	InboundRate    float64
	InboundBurst   int
	MaxMessageSize int64
}

type inbound struct {
	Event string                     `json:"event"`
	Data  domain.InsiderSubscription `json:"data"`
}

type Server struct {
	hub      *Hub
	settings Settings
	logger   log.Logger
}

func NewServer(hub *Hub, settings Settings, logger log.Logger) Server {
	return Server{
		hub:      hub,
		settings: settings,
		logger:   logger,
	}
}

// Serve upgrades the request and blocks until the connection is closed.
func (s Server) Serve(w http.ResponseWriter, r *http.Request) error {
	var upgradeErr error
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second, //nolint:mnd
		ReadBufferSize:   1024,            //nolint:mnd
		WriteBufferSize:  1024,            //nolint:mnd
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			upgradeErr = errors.WithMessagef(reason, "realtime: upgrade, status %d", status)
		},
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if upgradeErr != nil {
		return upgradeErr
	}
	if err != nil {
		return errors.WithMessage(err, "realtime: upgrade")
	}

	limiter := rate.NewLimiter(rate.Limit(s.settings.InboundRate), s.settings.InboundBurst)
	conn := newConn(ws, s.settings.SendBufferSize, limiter)
	ctx := log.ToContext(r.Context(), log.String("connId", conn.Id()))

	s.hub.Register(conn)
	s.logger.Info(ctx, "realtime: connected")
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
		s.logger.Info(ctx, "realtime: disconnected")
	}()

	go conn.writeLoop()
	conn.enqueue(mustMarshal(domain.EventHello, map[string]bool{"ok": true}))

	s.readLoop(ctx, conn)
	return nil
}

func (s Server) readLoop(ctx context.Context, conn *Conn) {
	conn.ws.SetReadLimit(s.settings.MaxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug(ctx, "realtime: read", log.String("error", err.Error()))
			}
			return
		}
		if !conn.limiter.Allow() {
			s.logger.Debug(ctx, "realtime: inbound message rate exceeded, message dropped")
			continue
		}

		msg := inbound{}
		err = json.Unmarshal(data, &msg)
		if err != nil {
			s.logger.Debug(ctx, "realtime: malformed message", log.String("error", err.Error()))
			continue
		}
		switch msg.Event {
		case domain.EventInsiderSubscribe:
			s.subscribeInsider(conn, msg.Data)
		default:
			s.logger.Debug(ctx, "realtime: unknown event", log.String("event", msg.Event))
		}
	}
}

func (s Server) subscribeInsider(conn *Conn, sub domain.InsiderSubscription) {
	rooms := []string{domain.RoomInsiderAll}
	for _, interest := range sub.Interests {
		rooms = append(rooms, fmt.Sprintf(domain.RoomInsiderInterestFmt, interest))
	}
	for _, lifestyle := range sub.Lifestyles {
		rooms = append(rooms, fmt.Sprintf(domain.RoomInsiderLifestyleFmt, lifestyle))
	}
	s.hub.Join(conn, rooms...)

	conn.enqueue(mustMarshal(domain.EventInsiderAck, domain.InsiderSubscribed{Rooms: s.hub.RoomsOf(conn)}))
}

func mustMarshal(event string, data any) []byte {
	payload, err := json.Marshal(domain.Event{Name: event, Data: data})
	if err != nil {
		panic(errors.WithMessagef(err, "marshal %s", event))
	}
	return payload
}
