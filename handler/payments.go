package handler

import (
	"context"
	"io"
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
)

type PaymentsService interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error)
	Session(ctx context.Context, id string) (*domain.SessionDetails, error)
}

type WebhookService interface {
	Handle(ctx context.Context, payload []byte, signature string) (*domain.WebhookAck, error)
}

type Payments struct {
	service PaymentsService
	webhook WebhookService
}

func NewPayments(service PaymentsService, webhook WebhookService) Payments {
	return Payments{
		service: service,
		webhook: webhook,
	}
}

func (h Payments) Checkout(ctx *request.Context) error {
	req := domain.CheckoutRequest{}
	err := decodeBody(ctx, &req)
	if err != nil {
		return err
	}

	session, err := h.service.Checkout(ctx.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return badRequest("invalid checkout items", err)
	case err != nil:
		return paymentError(err)
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, session)
}

func (h Payments) Session(ctx *request.Context) error {
	id := ctx.Query("id")
	if id == "" {
		return badRequest("id required", errors.New("session: id required"))
	}

	details, err := h.service.Session(ctx.Context(), id)
	if err != nil {
		return paymentError(err)
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, details)
}

// Webhook needs the raw body, signatures are computed over exact bytes.
func (h Payments) Webhook(ctx *request.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.WithMessage(err, "read webhook body")
	}

	ack, err := h.webhook.Handle(ctx.Context(), payload, ctx.Request().Header.Get(stripeSignatureHeader))
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		return httperrors.New(http.StatusBadRequest, domain.ErrCodeSignatureInvalid, "invalid signature", err)
	case errors.Is(err, domain.ErrInvalidPayload):
		return badRequest("invalid webhook payload", err)
	case err != nil:
		return errors.WithMessage(err, "handle webhook")
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, ack)
}

func paymentError(err error) error {
	if errors.Is(err, domain.ErrNotConfigured) {
		return httperrors.New(http.StatusInternalServerError, domain.ErrCodeNotConfigured, "payment provider is not configured", err)
	}
	return httperrors.New(http.StatusInternalServerError, domain.ErrCodeUpstreamUnavailable, "payment provider error", err)
}
