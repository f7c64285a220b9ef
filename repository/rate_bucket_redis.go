package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var incrementWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type RedisRateBuckets struct {
	cli redis.UniversalClient
}

func NewRedisRateBuckets(cli redis.UniversalClient) RedisRateBuckets {
	return RedisRateBuckets{
		cli: cli,
	}
}

func (r RedisRateBuckets) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error) {
	result, err := incrementWindowScript.Run(ctx, r.cli, []string{r.key(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.WithMessage(err, "run increment window script")
	}
	if len(result) != 2 { //nolint:mnd
		return 0, time.Time{}, errors.Errorf("unexpected script result: %v", result)
	}

	return result[0], now.Add(time.Duration(result[1]) * time.Millisecond), nil
}

// RemoveExpired is a no-op, redis expires buckets by itself.
func (r RedisRateBuckets) RemoveExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (r RedisRateBuckets) key(key string) string {
	return fmt.Sprintf("rate_bucket:%s", key)
}
