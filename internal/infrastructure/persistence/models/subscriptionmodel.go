package models

import (
	"time"

	"gorm.io/gorm"

	"rebill/internal/shared/constants"
)

// SubscriptionModel is the database persistence model for subscriptions.
type SubscriptionModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	PlanID             string `gorm:"not null;size:100;index:idx_sub_plan"`
	Subscriber         string `gorm:"not null;size:100;index:idx_sub_subscriber"`
	Status             string `gorm:"not null;size:20;index:idx_sub_status"`
	StartAt            time.Time
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null;index:idx_sub_period_end"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false"`
	PausedAt           *time.Time
	PaymentCount       uint64 `gorm:"not null;default:0"`
	Version            int    `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
