// Package pubsub bridges domain events onto Redis for cross-instance
// consumers.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"rebill/internal/domain/shared/events"
	"rebill/internal/shared/logger"
)

const billingEventChannel = "rebill:billing:events"

// BillingEventEnvelope is the wire format published to Redis. The payload
// is the originating event struct serialized as JSON.
type BillingEventEnvelope struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  int64           `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// BillingEventHandler is a callback for consuming bridged events.
type BillingEventHandler func(ctx context.Context, envelope BillingEventEnvelope)

// RedisBillingEventBus publishes dispatched domain events to a Redis
// channel and lets other instances subscribe to them. It plugs into the
// in-process dispatcher as a catch-all event handler.
type RedisBillingEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisBillingEventBus(client *redis.Client, logger logger.Interface) *RedisBillingEventBus {
	return &RedisBillingEventBus{
		client: client,
		logger: logger,
	}
}

// Handle publishes the event to the billing channel.
func (b *RedisBillingEventBus) Handle(event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := BillingEventEnvelope{
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		OccurredAt:  event.GetOccurredAt().Unix(),
		Payload:     payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := b.client.Publish(context.Background(), billingEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish billing event",
			"event_type", envelope.EventType,
			"aggregate_id", envelope.AggregateID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("billing event published",
		"event_type", envelope.EventType,
		"aggregate_id", envelope.AggregateID,
	)
	return nil
}

// CanHandle reports true for every event type; the bridge is a catch-all.
func (b *RedisBillingEventBus) CanHandle(eventType string) bool {
	return true
}

// Subscribe consumes bridged events and calls the handler for each one.
// It blocks until the context is cancelled.
func (b *RedisBillingEventBus) Subscribe(ctx context.Context, handler BillingEventHandler) error {
	pubsub := b.client.Subscribe(ctx, billingEventChannel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to billing events", "channel", billingEventChannel)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("billing event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("billing event channel closed")
				return nil
			}

			var envelope BillingEventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logger.Warnw("failed to unmarshal billing event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handle in background to avoid blocking the receive loop.
			go handler(context.Background(), envelope)
		}
	}
}

var _ events.EventHandler = (*RedisBillingEventBus)(nil)
