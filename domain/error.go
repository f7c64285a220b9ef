package domain

import (
	"github.com/pkg/errors"
)

const (
	ErrCodeUnauthorized         = "unauthorized"
	ErrCodeForbidden            = "forbidden"
	ErrCodeValidationFailed     = "validation_failed"
	ErrCodeUnsupportedMediaType = "unsupported_media_type"
	ErrCodePayloadTooLarge      = "payload_too_large"
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeSignatureInvalid     = "invalid_signature"
	ErrCodeUpstreamUnavailable  = "upstream_unavailable"
	ErrCodeNotConfigured        = "not_configured"
	ErrCodeNotFound             = "not_found"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
	ErrCodeInternal             = "internal_error"
)

var (
	ErrNotConfigured    = errors.New("payment provider is not configured")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidSignature = errors.New("invalid signature")
)
