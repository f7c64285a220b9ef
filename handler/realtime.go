package handler

import (
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"
)

type RealtimeServer interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

type Realtime struct {
	server RealtimeServer
}

func NewRealtime(server RealtimeServer) Realtime {
	return Realtime{
		server: server,
	}
}

func (h Realtime) Connect(ctx *request.Context) error {
	err := h.server.Serve(ctx.ResponseWriter(), ctx.Request())
	if err != nil {
		return httperrors.New(http.StatusBadRequest, domain.ErrCodeValidationFailed, "websocket upgrade required", err)
	}
	return nil
}
