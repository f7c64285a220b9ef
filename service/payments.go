package service

import (
	"context"

	"bff-gateway/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/txix-open/isp-kit/log"
)

const (
	defaultCurrency    = "usd"
	defaultProductName = "Valet Service"
	defaultCheckout    = "payment"
	defaultQuantity    = 1
)

var (
	defaultAmount = decimal.NewFromInt(1000)
)

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*domain.SessionDetails, error)
}

type Payments struct {
	provider   PaymentProvider
	successUrl string
	cancelUrl  string
	logger     log.Logger
}

// NewPayments accepts a nil provider, every call then fails with domain.ErrNotConfigured.
func NewPayments(provider PaymentProvider, successUrl string, cancelUrl string, logger log.Logger) Payments {
	return Payments{
		provider:   provider,
		successUrl: successUrl,
		cancelUrl:  cancelUrl,
		logger:     logger,
	}
}

func (s Payments) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if s.provider == nil {
		return nil, domain.ErrNotConfigured
	}

	req, err := s.withDefaults(req)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.Amount.Mul(decimal.NewFromInt(item.Quantity)))
	}

	session, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, errors.WithMessage(err, "create checkout session")
	}

	s.logger.Info(ctx, "payments: checkout session created",
		log.String("sessionId", session.Id),
		log.String("ticketId", req.TicketId),
		log.String("total", total.String()),
	)
	return session, nil
}

func (s Payments) Session(ctx context.Context, id string) (*domain.SessionDetails, error) {
	if s.provider == nil {
		return nil, domain.ErrNotConfigured
	}
	details, err := s.provider.GetCheckoutSession(ctx, id)
	if err != nil {
		return nil, errors.WithMessage(err, "get checkout session")
	}
	return details, nil
}

// withDefaults fills missing item fields. Amounts are minor units and must be whole.
func (s Payments) withDefaults(req domain.CheckoutRequest) (domain.CheckoutRequest, error) {
	items := make([]domain.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Currency == "" {
			item.Currency = defaultCurrency
		}
		if item.Name == "" {
			item.Name = defaultProductName
		}
		if !item.Amount.IsPositive() {
			item.Amount = defaultAmount
		}
		if !item.Amount.IsInteger() {
			return req, errors.WithMessagef(domain.ErrInvalidPayload, "amount %s is not a whole number of minor units", item.Amount)
		}
		if item.Quantity <= 0 {
			item.Quantity = defaultQuantity
		}
		items = append(items, item)
	}
	req.Items = items

	if req.SuccessUrl == "" {
		req.SuccessUrl = s.successUrl
	}
	if req.CancelUrl == "" {
		req.CancelUrl = s.cancelUrl
	}
	if req.Mode == "" {
		req.Mode = defaultCheckout
	}

	metadata := make(map[string]string, len(req.Metadata)+2) //nolint:mnd
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.TicketId != "" {
		metadata["ticketId"] = req.TicketId
	}
	if req.UserId != "" {
		metadata["userId"] = req.UserId
	}
	req.Metadata = metadata

	return req, nil
}
