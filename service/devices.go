package service

import (
	"context"

	"bff-gateway/domain"

	"github.com/txix-open/isp-kit/log"
)

type DeviceStore interface {
	Add(role string, token string)
}

type Devices struct {
	store  DeviceStore
	logger log.Logger
}

func NewDevices(store DeviceStore, logger log.Logger) Devices {
	return Devices{
		store:  store,
		logger: logger,
	}
}

func (s Devices) Register(ctx context.Context, req domain.DeviceRegistration) error {
	if req.Token == nil {
		return domain.ErrInvalidPayload
	}

	role := domain.DeviceRoleUser
	if req.Role == domain.DeviceRoleDriver {
		role = domain.DeviceRoleDriver
	}
	s.store.Add(role, *req.Token)
	s.logger.Debug(ctx, "devices: token registered", log.String("role", role))
	return nil
}
