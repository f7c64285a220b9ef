package domain

type PresencePing struct {
	UserId  *string  `json:"userId" validate:"required"`
	VenueId *string  `json:"venueId" validate:"required"`
	TtlSec  *float64 `json:"ttlSec" validate:"required"`
}

type PresenceEvent struct {
	VenueId   string `json:"venueId"`
	UserId    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

type PresenceResponse struct {
	Status    string `json:"status"`
	ExpiresAt int64  `json:"expiresAt"`
}

const (
	DeviceRoleUser   = "user"
	DeviceRoleDriver = "driver"
)

type DeviceRegistration struct {
	Role  string  `json:"role"`
	Token *string `json:"token"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
