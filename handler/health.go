package handler

import (
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/request"
)

type Health struct{}

func (h Health) Handle(ctx *request.Context) error {
	return writeJson(ctx.ResponseWriter(), http.StatusOK, domain.StatusResponse{Status: "ok"})
}

type Metrics struct {
	handler http.Handler
}

func NewMetrics(handler http.Handler) Metrics {
	return Metrics{
		handler: handler,
	}
}

func (h Metrics) Handle(ctx *request.Context) error {
	h.handler.ServeHTTP(ctx.ResponseWriter(), ctx.Request())
	return nil
}
