package middleware

import (
	"mime"
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

// Admission checks content type and declared size of rate limited writes.
func Admission(maxBodyBytes int64) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			_, limited := ctx.RateRule()
			if !limited {
				return next.Handle(ctx)
			}

			r := ctx.Request()
			mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if mediaType != "application/json" {
				return httperrors.New(
					http.StatusUnsupportedMediaType,
					domain.ErrCodeUnsupportedMediaType,
					"content-type must be application/json",
					errors.Errorf("admission: unsupported content type '%s'", r.Header.Get("Content-Type")),
				)
			}
			if r.ContentLength > maxBodyBytes {
				return httperrors.New(
					http.StatusRequestEntityTooLarge,
					domain.ErrCodePayloadTooLarge,
					"payload too large",
					errors.Errorf("admission: content length %d exceeds %d", r.ContentLength, maxBodyBytes),
				)
			}

			r.Body = http.MaxBytesReader(ctx.ResponseWriter(), r.Body, maxBodyBytes)
			return next.Handle(ctx)
		})
	}
}
