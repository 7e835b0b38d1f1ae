package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

const (
	EventLeadCreated       = "lead.created"
	EventLeadUpdated       = "lead.updated"
	EventLeadStatusChanged = "lead.status_changed"
	EventFollowUpAdded     = "lead.follow_up_added"
)

// LeadEvent tells other pipeline instances that a lead changed on the
// backend and their boards are stale.
type LeadEvent struct {
	Type       string        `json:"type"`
	LeadID     string        `json:"lead_id"`
	Status     entity.Status `json:"status,omitempty"`
	Origin     string        `json:"origin"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// ChannelPublisher is the part of *amqp.Channel the producer uses.
type ChannelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch     ChannelPublisher
	Origin string
}

func NewProducer(ch ChannelPublisher, origin string) *RabbitMQProducer {
	return &RabbitMQProducer{
		Ch:     ch,
		Origin: origin,
	}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	if event.Origin == "" {
		event.Origin = p.Origin
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType: "application/json",
			Type:        event.Type,
			Timestamp:   event.OccurredAt,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead event: %w", err)
	}

	return nil
}

// NopProducer is used when no broker is configured.
type NopProducer struct{}

func (NopProducer) PublishLeadEvent(context.Context, LeadEvent) error { return nil }
