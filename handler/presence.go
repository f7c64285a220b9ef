package handler

import (
	"context"
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/request"
)

type PresenceService interface {
	Ping(ctx context.Context, ping domain.PresencePing) domain.PresenceResponse
}

type Presence struct {
	service PresenceService
}

func NewPresence(service PresenceService) Presence {
	return Presence{
		service: service,
	}
}

// Ping expects a payload already checked by the validation middleware.
func (h Presence) Ping(ctx *request.Context) error {
	ping := domain.PresencePing{}
	err := decodeBody(ctx, &ping)
	if err != nil {
		return err
	}
	if ping.UserId == nil || ping.VenueId == nil || ping.TtlSec == nil {
		return badRequest("invalid presence payload", domain.ErrInvalidPayload)
	}

	resp := h.service.Ping(ctx.Context(), ping)
	return writeJson(ctx.ResponseWriter(), http.StatusOK, resp)
}
