package handler

import (
	"context"
	"net/http"
	"strings"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"
)

type DiscoveryService interface {
	Cards(ctx context.Context, interests []string) ([]domain.Card, error)
}

type Discovery struct {
	service DiscoveryService
}

func NewDiscovery(service DiscoveryService) Discovery {
	return Discovery{
		service: service,
	}
}

func (h Discovery) Cards(ctx *request.Context) error {
	interests := make([]string, 0)
	for _, interest := range strings.Split(ctx.Query("interests"), ",") {
		interest = strings.TrimSpace(interest)
		if interest != "" {
			interests = append(interests, interest)
		}
	}

	cards, err := h.service.Cards(ctx.Context(), interests)
	if err != nil {
		return httperrors.New(http.StatusBadGateway, domain.ErrCodeUpstreamUnavailable, "discovery upstream is not available", err)
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, domain.CardsResponse{Items: cards})
}
