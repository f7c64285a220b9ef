package repository

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int64
	resetAt time.Time
}

// RateBuckets is a process-local fixed window counter store.
type RateBuckets struct {
	lock    *sync.Mutex
	buckets map[string]*bucket
}

func NewRateBuckets() RateBuckets {
	return RateBuckets{
		lock:    &sync.Mutex{},
		buckets: make(map[string]*bucket),
	}
}

func (r RateBuckets) Increment(_ context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	b, ok := r.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		r.buckets[key] = b
	}
	b.count++

	return b.count, b.resetAt, nil
}

// RemoveExpired drops buckets whose window has already elapsed.
func (r RateBuckets) RemoveExpired(_ context.Context, now time.Time) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	removed := 0
	for key, b := range r.buckets {
		if !now.Before(b.resetAt) {
			delete(r.buckets, key)
			removed++
		}
	}
	return removed, nil
}
