package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher"
)

var _ publisher.EventPublisher = (*EventPublisher)(nil)

const (
	exchangeName = "fleet.events"
	alertQueue   = "fleet_alerts"
)

// EventPublisher pushes core events onto a topic exchange with
// "<tenant>.<kind>" routing keys, so consumers can bind per tenant, per
// event kind, or both.
type EventPublisher struct {
	ch *amqp.Channel
}

func NewEventPublisher(conn *amqp.Connection) (*EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(alertQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(alertQueue, "*.alert.*", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &EventPublisher{ch: ch}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, e *domain.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := fmt.Sprintf("%s.%s", e.TenantID, e.Kind)
	return p.ch.PublishWithContext(ctx, exchangeName, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
