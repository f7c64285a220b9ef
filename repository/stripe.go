package repository

import (
	"context"

	"bff-gateway/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string, apiUrl string) Stripe {
	var backends *stripe.Backends
	if apiUrl != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(apiUrl),
		})
		backends = &stripe.Backends{
			API:     backend,
			Connect: backend,
			Uploads: backend,
		}
	}
	return Stripe{
		api: client.New(secretKey, backends),
	}
}

func (r Stripe) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(req.Mode),
		SuccessURL: stripe.String(req.SuccessUrl),
		CancelURL:  stripe.String(req.CancelUrl),
		Metadata:   req.Metadata,
	}
	params.SetIdempotencyKey(uuid.NewString())
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(item.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.Amount.IntPart()),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	session, err := r.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.WithMessage(err, "stripe: create checkout session")
	}
	return &domain.CheckoutSession{
		Id:  session.ID,
		Url: session.URL,
	}, nil
}

func (r Stripe) GetCheckoutSession(ctx context.Context, id string) (*domain.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("payment_intent")
	params.AddExpand("payment_intent.latest_charge")

	session, err := r.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "stripe: get checkout session %s", id)
	}

	details := &domain.SessionDetails{
		Id:                 session.ID,
		AmountTotal:        session.AmountTotal,
		Currency:           string(session.Currency),
		PaymentStatus:      string(session.PaymentStatus),
		Mode:               string(session.Mode),
		PaymentMethodTypes: session.PaymentMethodTypes,
	}
	intent := session.PaymentIntent
	if intent == nil {
		return details, nil
	}
	if len(intent.PaymentMethodTypes) > 0 {
		details.PaymentMethodTypes = intent.PaymentMethodTypes
	}
	if intent.LatestCharge != nil && intent.LatestCharge.PaymentMethodDetails != nil {
		details.PaymentMethod = paymentMethod(intent.LatestCharge.PaymentMethodDetails)
	}
	return details, nil
}

func paymentMethod(pmd *stripe.ChargePaymentMethodDetails) string {
	if pmd.Type != stripe.ChargePaymentMethodDetailsTypeCard {
		return string(pmd.Type)
	}
	if pmd.Card != nil && pmd.Card.Brand != "" {
		return "card_" + string(pmd.Card.Brand)
	}
	return "card"
}

type StripeSignature struct {
	secret string
}

func NewStripeSignature(secret string) StripeSignature {
	return StripeSignature{
		secret: secret,
	}
}

func (r StripeSignature) Enabled() bool {
	return r.secret != ""
}

func (r StripeSignature) Verify(payload []byte, header string) error {
	err := webhook.ValidatePayload(payload, header, r.secret)
	if err != nil {
		return errors.WithMessage(err, "stripe: validate payload")
	}
	return nil
}
