package validation

import (
	"net/http"

	"bff-gateway/domain"
)

const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidPhone       = "invalid_phone"
	CodeInvalidPayload     = "invalid_payload"
	CodeInvalidVibe        = "invalid_vibe"
	CodeTitleRequired      = "title_required"
	CodeInvalidIntake      = "invalid_intake"
	CodeInvalidService     = "invalid_service"
	CodeTooManyPhotos      = "too_many_photos"
	CodeInvalidStatus      = "invalid_status"
)

type Credentials struct {
	Email    *string `json:"email" validate:"required,max=256"`
	Password *string `json:"password" validate:"required,max=256"`
}

type PhoneStart struct {
	Phone *string `json:"phone" validate:"required,min=8,max=20"`
}

type PhoneVerify struct {
	Phone *string `json:"phone" validate:"required"`
	Code  *string `json:"code" validate:"required,len=6"`
}

type VibeScore struct {
	VibeScore *float64 `json:"vibeScore" validate:"required,min=0,max=10"`
}

type AdminVenue struct {
	Title *string `json:"title" validate:"required,notblank"`
}

type ContactsMatch struct {
	Hashes []string `json:"hashes" validate:"required,min=1,dive,min=32,max=128"`
}

type Vehicle struct {
	Make  *string `json:"make" validate:"required"`
	Model *string `json:"model" validate:"required"`
}

type ValetIntake struct {
	UserId   *string  `json:"userId" validate:"required,min=1"`
	Vehicle  *Vehicle `json:"vehicle" validate:"required"`
	Services []string `json:"services" validate:"omitempty,dive,oneof=basic_wash full_detail ev_charging"`
	Photos   []any    `json:"photos" validate:"omitempty,max=10"`
}

type ValetStatus struct {
	Status *string `json:"status" validate:"required,oneof=intake parked service_in_progress ready retrieved"`
}

// Rule binds a payload schema to the requests it applies to.
type Rule struct {
	Method     string
	Paths      PathMatcher
	Code       string
	FieldCodes map[string]string
	New        func() any
}

func DefaultRules(adminPrefix string) []Rule {
	return []Rule{
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/auth/login", "/api/auth/register"),
			Code:   CodeInvalidCredentials,
			New:    func() any { return &Credentials{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/auth/phone/start"),
			Code:   CodeInvalidPhone,
			New:    func() any { return &PhoneStart{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/auth/phone/verify"),
			Code:   CodeInvalidPayload,
			New:    func() any { return &PhoneVerify{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/venues/*/vibe", "/api/secure/venues/*/vibe"),
			Code:   CodeInvalidVibe,
			New:    func() any { return &VibeScore{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher(adminPrefix + "/venues"),
			Code:   CodeTitleRequired,
			New:    func() any { return &AdminVenue{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/contacts/match"),
			Code:   CodeInvalidPayload,
			New:    func() any { return &ContactsMatch{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/valet/intake"),
			Code:   CodeInvalidIntake,
			FieldCodes: map[string]string{
				"Services": CodeInvalidService,
				"Photos":   CodeTooManyPhotos,
			},
			New: func() any { return &ValetIntake{} },
		},
		{
			Method: http.MethodPatch,
			Paths:  NewGlobMatcher("/api/valet/vehicles/*/status"),
			Code:   CodeInvalidStatus,
			New:    func() any { return &ValetStatus{} },
		},
		{
			Method: http.MethodPost,
			Paths:  NewGlobMatcher("/api/presence"),
			Code:   domain.ErrCodeValidationFailed,
			New:    func() any { return &domain.PresencePing{} },
		},
	}
}
