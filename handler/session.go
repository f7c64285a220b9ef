package handler

import (
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

type Session struct{}

// Handle echoes the verified token subject and roles.
func (h Session) Handle(ctx *request.Context) error {
	claims, err := ctx.Claims()
	if err != nil {
		return errors.WithMessage(err, "session")
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, domain.Session{
		Sub:   claims.Subject,
		Roles: claims.Roles.List(),
	})
}
