package repository

import (
	"context"
	"sync"
	"time"
)

type SeenEvents struct {
	lock *sync.Mutex
	seen map[string]time.Time
}

func NewSeenEvents() SeenEvents {
	return SeenEvents{
		lock: &sync.Mutex{},
		seen: make(map[string]time.Time),
	}
}

func (r SeenEvents) RecordOnce(_ context.Context, id string, now time.Time) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, exists := r.seen[id]
	if exists {
		return false, nil
	}
	r.seen[id] = now
	return true, nil
}

func (r SeenEvents) RemoveOlderThan(_ context.Context, deadline time.Time) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	removed := 0
	for id, seenAt := range r.seen {
		if seenAt.Before(deadline) {
			delete(r.seen, id)
			removed++
		}
	}
	return removed, nil
}

func (r SeenEvents) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.seen)
}
