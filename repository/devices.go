package repository

import (
	"sync"
)

type Devices struct {
	lock   *sync.RWMutex
	tokens map[string]map[string]struct{}
}

func NewDevices() Devices {
	return Devices{
		lock:   &sync.RWMutex{},
		tokens: make(map[string]map[string]struct{}),
	}
}

func (r Devices) Add(role string, token string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	set, ok := r.tokens[role]
	if !ok {
		set = make(map[string]struct{})
		r.tokens[role] = set
	}
	set[token] = struct{}{}
}

func (r Devices) Count(role string) int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens[role])
}
