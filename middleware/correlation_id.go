package middleware

import (
	"strings"

	"bff-gateway/request"

	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/requestid"
)

const (
	CorrelationIdHeader = "x-correlation-id"
)

// CorrelationId echoes the client correlation id or generates a new one.
func CorrelationId() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			correlationId := strings.TrimSpace(ctx.Request().Header.Get(CorrelationIdHeader))
			if correlationId == "" {
				correlationId = requestid.Next()
			}
			ctx.Request().Header.Set(CorrelationIdHeader, correlationId)
			ctx.ResponseWriter().Header().Set(CorrelationIdHeader, correlationId)

			context := requestid.ToContext(ctx.Context(), correlationId)
			context = log.ToContext(context, log.String("correlationId", correlationId))

			ctx.SetContext(context)
			return next.Handle(ctx)
		})
	}
}
