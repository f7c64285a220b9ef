package handler

import (
	"context"
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

type DevicesService interface {
	Register(ctx context.Context, req domain.DeviceRegistration) error
}

type Devices struct {
	service DevicesService
}

func NewDevices(service DevicesService) Devices {
	return Devices{
		service: service,
	}
}

func (h Devices) Register(ctx *request.Context) error {
	req := domain.DeviceRegistration{}
	err := decodeBody(ctx, &req)
	if err != nil {
		return err
	}

	err = h.service.Register(ctx.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return badRequest("device token required", err)
	case err != nil:
		return errors.WithMessage(err, "register device")
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, domain.StatusResponse{Status: "ok"})
}
