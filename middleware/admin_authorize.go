package middleware

import (
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

func AdminAuthorize(policy AccessPolicy) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			if policy.Access(ctx.Endpoint()) != domain.AccessAdmin {
				return next.Handle(ctx)
			}
			claims, err := ctx.Claims()
			if err == nil && claims.HasRole(domain.RoleAdmin) {
				return next.Handle(ctx)
			}
			return httperrors.New(
				http.StatusForbidden,
				domain.ErrCodeForbidden,
				"admin role required",
				errors.Errorf("admin authorization: admin role required for '%s'", ctx.Endpoint()),
			)
		})
	}
}
