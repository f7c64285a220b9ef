package domain

import (
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int64           `json:"quantity"`
}

type CheckoutRequest struct {
	Items      []CheckoutItem    `json:"items"`
	SuccessUrl string            `json:"successUrl"`
	CancelUrl  string            `json:"cancelUrl"`
	Mode       string            `json:"mode"`
	Metadata   map[string]string `json:"metadata"`
	TicketId   string            `json:"ticketId"`
	UserId     string            `json:"userId"`
}

type CheckoutSession struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

type SessionDetails struct {
	Id                 string   `json:"id"`
	AmountTotal        int64    `json:"amount_total"`
	Currency           string   `json:"currency"`
	PaymentStatus      string   `json:"payment_status"`
	Mode               string   `json:"mode"`
	PaymentMethod      string   `json:"payment_method,omitempty"`
	PaymentMethodTypes []string `json:"payment_method_types,omitempty"`
}
