package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Broker is the publishing side of the message broker client
type Broker interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte, contentType string) error
}

// Publisher sends events to the broker
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BrokerPublisher encodes events as JSON and routes them by type
type BrokerPublisher struct {
	broker  Broker
	timeout time.Duration
	logger  *slog.Logger
}

// NewBrokerPublisher bounds every publish by timeout (zero means the caller's context only)
func NewBrokerPublisher(broker Broker, timeout time.Duration, logger *slog.Logger) *BrokerPublisher {
	return &BrokerPublisher{broker: broker, timeout: timeout, logger: logger}
}

func (p *BrokerPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.broker.Publish(ctx, event.Type, event.ID, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug("Activity event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)
	return nil
}

// NopPublisher drops events; used when no broker is configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
