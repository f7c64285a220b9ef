package middleware

import (
	"net/http"
	"strings"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "bearer "
)

type Authenticator interface {
	Authenticate(token string) (*domain.Claims, error)
}

type AccessPolicy interface {
	Access(path string) domain.Access
}

// Authenticate requires a valid bearer token on protected paths.
// On public paths a valid token is attached to the context and an invalid one is ignored.
func Authenticate(authenticator Authenticator, policy AccessPolicy) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			access := policy.Access(ctx.Endpoint())
			token, hasToken := bearerToken(ctx.Request())

			if access == domain.AccessPublic {
				if hasToken {
					claims, err := authenticator.Authenticate(token)
					if err == nil {
						ctx.Authenticate(*claims)
					}
				}
				return next.Handle(ctx)
			}

			if !hasToken {
				return httperrors.New(
					http.StatusUnauthorized,
					domain.ErrCodeUnauthorized,
					"bearer token required",
					errors.Errorf("authenticate: bearer token required for '%s'", ctx.Endpoint()),
				)
			}
			claims, err := authenticator.Authenticate(token)
			if err != nil {
				return httperrors.New(
					http.StatusUnauthorized,
					domain.ErrCodeUnauthorized,
					"invalid token",
					errors.WithMessage(err, "authenticate"),
				)
			}
			ctx.Authenticate(*claims)

			return next.Handle(ctx)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get(authorizationHeader))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
