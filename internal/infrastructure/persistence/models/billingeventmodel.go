package models

import (
	"time"

	"gorm.io/datatypes"

	"rebill/internal/shared/constants"
)

// BillingEventModel is the append-only persistence model for emitted
// domain events. The payload is the event struct serialized as JSON.
type BillingEventModel struct {
	ID          uint           `gorm:"primarykey"`
	EventType   string         `gorm:"not null;size:50;index:idx_event_type"`
	AggregateID string         `gorm:"not null;size:100;index:idx_event_aggregate"`
	Payload     datatypes.JSON `gorm:"not null"`
	OccurredAt  time.Time      `gorm:"not null;index:idx_event_occurred"`
	CreatedAt   time.Time
}

// TableName specifies the table name for GORM
func (BillingEventModel) TableName() string {
	return constants.TableBillingEvents
}
