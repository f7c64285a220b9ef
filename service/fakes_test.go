package service_test

import (
	"context"
	"sync"

	"bff-gateway/domain"
)

type published struct {
	event string
	data  any
	rooms []string
}

type publisherMock struct {
	lock   sync.Mutex
	events []published
}

func (p *publisherMock) Publish(_ context.Context, event string, data any, rooms ...string) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.events = append(p.events, published{event: event, data: data, rooms: rooms})
	return 1
}

func (p *publisherMock) Events() []published {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]published(nil), p.events...)
}

type ticketMarkerMock struct {
	lock  sync.Mutex
	calls []string
	err   error
}

func (m *ticketMarkerMock) MarkPaid(_ context.Context, ticketId string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.calls = append(m.calls, ticketId)
	return m.err
}

type verifierMock struct {
	enabled bool
	err     error
}

func (v verifierMock) Enabled() bool {
	return v.enabled
}

func (v verifierMock) Verify([]byte, string) error {
	return v.err
}

type itemsMock struct {
	items *domain.UpstreamItems
	err   error
}

func (m itemsMock) Discover(context.Context) (*domain.UpstreamItems, error) {
	return m.items, m.err
}

func (m itemsMock) Search(context.Context) (*domain.UpstreamItems, error) {
	return m.items, m.err
}

type paymentProviderMock struct {
	lastRequest domain.CheckoutRequest
	err         error
}

func (m *paymentProviderMock) CreateCheckoutSession(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CheckoutSession{Id: "cs_test_1", Url: "https://checkout.local/cs_test_1"}, nil
}

func (m *paymentProviderMock) GetCheckoutSession(_ context.Context, id string) (*domain.SessionDetails, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SessionDetails{Id: id, AmountTotal: 1000, Currency: "usd"}, nil
}
