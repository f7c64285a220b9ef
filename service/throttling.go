package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bff-gateway/domain"

	"github.com/pkg/errors"
)

type RateBucketRepo interface {
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error)
	RemoveExpired(ctx context.Context, now time.Time) (int, error)
}

type Throttling struct {
	repo  RateBucketRepo
	rules []domain.RateRule
	now   func() time.Time
}

func NewThrottling(repo RateBucketRepo, rules []domain.RateRule, now func() time.Time) Throttling {
	return Throttling{
		repo:  repo,
		rules: rules,
		now:   now,
	}
}

// Allow applies the first rule matching method and path prefix.
// Requests matching no rule are always allowed.
func (s Throttling) Allow(ctx context.Context, method string, path string, clientId string) (*domain.RateLimitResult, error) {
	rule, ok := s.match(method, path)
	if !ok {
		return &domain.RateLimitResult{Allow: true}, nil
	}

	now := s.now()
	count, resetAt, err := s.repo.Increment(ctx, s.key(clientId, rule), rule.Window, now)
	if err != nil {
		return nil, errors.WithMessage(err, "increment rate bucket")
	}

	result := &domain.RateLimitResult{
		Matched: true,
		Allow:   count <= rule.Limit,
		Count:   count,
		Rule:    rule,
	}
	if !result.Allow {
		result.RetryAfter = resetAt.Sub(now)
	}
	return result, nil
}

func (s Throttling) RemoveExpired(ctx context.Context) (int, error) {
	removed, err := s.repo.RemoveExpired(ctx, s.now())
	if err != nil {
		return 0, errors.WithMessage(err, "remove expired rate buckets")
	}
	return removed, nil
}

func (s Throttling) match(method string, path string) (domain.RateRule, bool) {
	for _, rule := range s.rules {
		if strings.EqualFold(rule.Method, method) && strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return domain.RateRule{}, false
}

func (s Throttling) key(clientId string, rule domain.RateRule) string {
	return fmt.Sprintf("%s|%s", clientId, rule.Prefix)
}
