package models

import (
	"time"

	"rebill/internal/shared/constants"
)

// PaymentRecordModel is the database persistence model for charge records.
// Records are append-only; there is no update or delete path.
type PaymentRecordModel struct {
	ID             uint      `gorm:"primarykey"`
	RecordID       string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: pr_xxx"`
	SubscriptionID string    `gorm:"not null;size:50;index:idx_record_subscription"`
	Amount         int64     `gorm:"not null"`
	ChargedAt      time.Time `gorm:"not null"`
	PeriodStart    time.Time `gorm:"not null"`
	PeriodEnd      time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PaymentRecordModel) TableName() string {
	return constants.TablePaymentRecords
}
