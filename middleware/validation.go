package middleware

import (
	"bytes"
	"io"
	"net/http"

	"bff-gateway/httperrors"
	"bff-gateway/request"
	"bff-gateway/validation"

	"github.com/pkg/errors"
)

type PayloadValidator interface {
	Lookup(method string, path string) (validation.Rule, bool)
	Validate(rule validation.Rule, body []byte) error
}

// Validation rejects malformed payloads of declared routes before any handler or upstream sees them.
func Validation(validator PayloadValidator) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			r := ctx.Request()
			rule, ok := validator.Lookup(r.Method, ctx.Endpoint())
			if !ok {
				return next.Handle(ctx)
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				return errors.WithMessage(err, "validation: read request body")
			}
			err = r.Body.Close()
			if err != nil {
				return errors.WithMessage(err, "validation: close request body")
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			ctx.SetBody(body)

			err = validator.Validate(rule, body)
			var validationErr validation.Error
			switch {
			case errors.As(err, &validationErr):
				return httperrors.New(
					http.StatusBadRequest,
					validationErr.Code,
					validationErr.Message,
					errors.WithMessagef(err, "validation: %s %s", r.Method, ctx.Endpoint()),
				)
			case err != nil:
				return errors.WithMessage(err, "validation")
			}

			return next.Handle(ctx)
		})
	}
}
