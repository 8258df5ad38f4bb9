// Package eventlog persists emitted domain events into an append-only
// audit table.
package eventlog

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/shared/events"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

// GormEventLog is an event handler that appends every dispatched event to
// the billing_events table with its JSON payload.
type GormEventLog struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewGormEventLog(db *gorm.DB, logger logger.Interface) *GormEventLog {
	return &GormEventLog{db: db, logger: logger}
}

// Handle appends the event. A serialization failure is reported; the
// dispatch of the event to other handlers is unaffected.
func (l *GormEventLog) Handle(event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		l.logger.Errorw("failed to marshal event payload",
			"event_type", event.GetEventType(),
			"error", err,
		)
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	model := &models.BillingEventModel{
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		Payload:     payload,
		OccurredAt:  event.GetOccurredAt(),
	}

	if err := l.db.Create(model).Error; err != nil {
		l.logger.Errorw("failed to append event to log",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// CanHandle reports true for every event type; the log is a catch-all.
func (l *GormEventLog) CanHandle(eventType string) bool {
	return true
}

var _ events.EventHandler = (*GormEventLog)(nil)
