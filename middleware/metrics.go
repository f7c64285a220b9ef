package middleware

import (
	"bff-gateway/request"
)

type RequestMetrics interface {
	Request()
}

func Metrics(metrics RequestMetrics) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			metrics.Request()
			return next.Handle(ctx)
		})
	}
}
