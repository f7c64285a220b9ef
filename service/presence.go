package service

import (
	"context"
	"math"
	"time"

	"bff-gateway/cache"
	"bff-gateway/domain"

	"github.com/txix-open/isp-kit/log"
)

const (
	minPresenceTtl = 60 * time.Second
	maxPresenceTtl = 600 * time.Second
)

type Presence struct {
	store     *cache.Cache[int64]
	publisher Publisher
	logger    log.Logger
	now       func() time.Time
}

func NewPresence(store *cache.Cache[int64], publisher Publisher, logger log.Logger, now func() time.Time) Presence {
	return Presence{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       now,
	}
}

func (s Presence) Ping(ctx context.Context, ping domain.PresencePing) domain.PresenceResponse {
	ttl := clampTtl(*ping.TtlSec)
	key := *ping.VenueId + "|" + *ping.UserId
	expiresAt := s.now().Add(ttl).UnixMilli()
	s.store.Set(key, expiresAt, ttl)

	s.publisher.Publish(ctx, domain.EventPresenceVenue, domain.PresenceEvent{
		VenueId:   *ping.VenueId,
		UserId:    *ping.UserId,
		ExpiresAt: expiresAt,
	}, domain.RoomGlobal)

	return domain.PresenceResponse{
		Status:    "ok",
		ExpiresAt: expiresAt,
	}
}

func (s Presence) RemoveExpired(ctx context.Context) {
	removed := s.store.Purge()
	if removed > 0 {
		s.logger.Debug(ctx, "presence: expired entries removed", log.Int("count", removed))
	}
}

// clampTtl clamps in seconds first, a huge ttlSec would overflow time.Duration.
func clampTtl(sec float64) time.Duration {
	if math.IsNaN(sec) {
		return minPresenceTtl
	}
	sec = min(max(sec, minPresenceTtl.Seconds()), maxPresenceTtl.Seconds())
	return time.Duration(sec * float64(time.Second))
}
