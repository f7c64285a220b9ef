package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisSeenEvents struct {
	cli redis.UniversalClient
	ttl time.Duration
}

func NewRedisSeenEvents(cli redis.UniversalClient, ttl time.Duration) RedisSeenEvents {
	return RedisSeenEvents{
		cli: cli,
		ttl: ttl,
	}
}

func (r RedisSeenEvents) RecordOnce(ctx context.Context, id string, now time.Time) (bool, error) {
	created, err := r.cli.SetNX(ctx, r.key(id), now.UnixMilli(), r.ttl).Result()
	if err != nil {
		return false, errors.WithMessage(err, "set nx")
	}
	return created, nil
}

// RemoveOlderThan is a no-op, entries carry their own ttl.
func (r RedisSeenEvents) RemoveOlderThan(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (r RedisSeenEvents) key(id string) string {
	return fmt.Sprintf("webhook_event:%s", id)
}
