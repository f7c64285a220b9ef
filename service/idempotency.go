package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const (
	SeenEventTtl = 24 * time.Hour
)

type SeenEventsRepo interface {
	RecordOnce(ctx context.Context, id string, now time.Time) (bool, error)
	RemoveOlderThan(ctx context.Context, deadline time.Time) (int, error)
}

type Idempotency struct {
	repo SeenEventsRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewIdempotency(repo SeenEventsRepo, ttl time.Duration, now func() time.Time) Idempotency {
	return Idempotency{
		repo: repo,
		ttl:  ttl,
		now:  now,
	}
}

// RecordOnce reports whether id was seen for the first time.
func (s Idempotency) RecordOnce(ctx context.Context, id string) (bool, error) {
	created, err := s.repo.RecordOnce(ctx, id, s.now())
	if err != nil {
		return false, errors.WithMessage(err, "record event id")
	}
	return created, nil
}

func (s Idempotency) RemoveExpired(ctx context.Context) (int, error) {
	removed, err := s.repo.RemoveOlderThan(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, errors.WithMessage(err, "remove expired event ids")
	}
	return removed, nil
}
