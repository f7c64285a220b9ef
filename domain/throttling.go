package domain

import (
	"time"
)

type RateRule struct {
	Method string
	Prefix string
	Limit  int64
	Window time.Duration
}

type RateLimitResult struct {
	Matched    bool
	Allow      bool
	Count      int64
	RetryAfter time.Duration
	Rule       RateRule
}
