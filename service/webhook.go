package service

import (
	"context"
	"time"

	"bff-gateway/domain"
	"bff-gateway/metrics"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
)

type SignatureVerifier interface {
	Enabled() bool
	Verify(payload []byte, header string) error
}

type EventRecorder interface {
	RecordOnce(ctx context.Context, id string) (bool, error)
}

type TicketMarker interface {
	MarkPaid(ctx context.Context, ticketId string) error
}

type WebhookMetrics interface {
	WebhookEvent(result string)
}

type Webhook struct {
	verifier  SignatureVerifier
	events    EventRecorder
	valet     TicketMarker
	publisher Publisher
	metrics   WebhookMetrics
	logger    log.Logger
	now       func() time.Time
}

func NewWebhook(
	verifier SignatureVerifier,
	events EventRecorder,
	valet TicketMarker,
	publisher Publisher,
	metrics WebhookMetrics,
	logger log.Logger,
	now func() time.Time,
) Webhook {
	return Webhook{
		verifier:  verifier,
		events:    events,
		valet:     valet,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       now,
	}
}

// Handle acknowledges a payment provider delivery.
// Side effects run at most once per event id and never fail the acknowledgement.
func (s Webhook) Handle(ctx context.Context, payload []byte, signature string) (*domain.WebhookAck, error) {
	if s.verifier.Enabled() && signature != "" {
		err := s.verifier.Verify(payload, signature)
		if err != nil {
			s.metrics.WebhookEvent(metrics.WebhookInvalidSignature)
			return nil, errors.WithMessage(domain.ErrInvalidSignature, err.Error())
		}
	}

	event := domain.WebhookEvent{}
	err := json.Unmarshal(payload, &event)
	if err != nil {
		return nil, errors.WithMessage(domain.ErrInvalidPayload, err.Error())
	}

	if event.Id != "" {
		created, err := s.events.RecordOnce(ctx, event.Id)
		if err != nil {
			return nil, errors.WithMessage(err, "webhook dedupe")
		}
		if !created {
			s.metrics.WebhookEvent(metrics.WebhookDuplicate)
			s.logger.Info(ctx, "webhook: duplicate delivery", log.String("eventId", event.Id))
			return &domain.WebhookAck{Received: true, Duplicate: true}, nil
		}
	}

	s.metrics.WebhookEvent(metrics.WebhookProcessed)
	s.logger.Info(ctx, "webhook: received",
		log.String("eventId", event.Id),
		log.String("type", event.Type),
		log.String("objectId", event.Data.Object.Id),
	)

	if event.Type == domain.EventCheckoutSessionCompleted {
		s.paymentCompleted(ctx, event)
	}

	return &domain.WebhookAck{Received: true}, nil
}

func (s Webhook) paymentCompleted(ctx context.Context, event domain.WebhookEvent) {
	ticketId := event.TicketId()
	if ticketId == "" {
		return
	}

	err := s.valet.MarkPaid(ctx, ticketId)
	if err != nil {
		s.logger.Error(ctx, errors.WithMessagef(err, "webhook: mark ticket %s paid", ticketId))
	}

	s.publisher.Publish(ctx, domain.EventValetTask, domain.ValetTaskPaid{
		Id:     ticketId,
		Status: domain.ValetStatusPaid,
		PaidAt: s.now().UnixMilli(),
	}, domain.RoomGlobal)
}
