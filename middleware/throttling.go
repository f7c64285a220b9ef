package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

type Throttler interface {
	Allow(ctx context.Context, method string, path string, clientId string) (*domain.RateLimitResult, error)
}

type RateLimitMetrics interface {
	RateLimited()
}

func Throttling(throttler Throttler, metrics RateLimitMetrics, trustForwardedFor bool) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			r := ctx.Request()
			clientId := ClientAddress(r, trustForwardedFor)

			result, err := throttler.Allow(ctx.Context(), r.Method, ctx.Endpoint(), clientId)
			if err != nil {
				return errors.WithMessage(err, "throttling: allow")
			}
			if !result.Matched {
				return next.Handle(ctx)
			}
			ctx.SetRateRule(result.Rule)

			if !result.Allow {
				metrics.RateLimited()
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				ctx.ResponseWriter().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return httperrors.New(
					http.StatusTooManyRequests,
					domain.ErrCodeRateLimitExceeded,
					fmt.Sprintf("rate limit has been reached, try after %dms", result.RetryAfter.Milliseconds()),
					errors.Errorf("throttling: rate limit has been reached for '%s' on '%s'", clientId, result.Rule.Prefix),
				)
			}

			return next.Handle(ctx)
		})
	}
}

// ClientAddress returns the caller host, optionally taken from the first X-Forwarded-For entry.
func ClientAddress(r *http.Request, trustForwardedFor bool) string {
	if trustForwardedFor {
		forwarded := r.Header.Get("X-Forwarded-For")
		first, _, _ := strings.Cut(forwarded, ",")
		first = strings.TrimSpace(first)
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
