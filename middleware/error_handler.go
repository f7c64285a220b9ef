package middleware

import (
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
)

type HttpError interface {
	WriteError(w http.ResponseWriter) error
}

func ErrorHandler(logger log.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			err := next.Handle(ctx)
			if err == nil {
				return nil
			}

			var httpErr HttpError
			if errors.As(err, &httpErr) {
				logger.Debug(ctx.Context(), err)
				return httpErr.WriteError(ctx.ResponseWriter())
			}

			logger.Error(ctx.Context(), err)
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return httperrors.
					New(http.StatusRequestEntityTooLarge, domain.ErrCodePayloadTooLarge, "payload too large", err).
					WriteError(ctx.ResponseWriter())
			}
			return httperrors.
				New(http.StatusInternalServerError, domain.ErrCodeInternal, "internal service error", err).
				WriteError(ctx.ResponseWriter())
		})
	}
}
