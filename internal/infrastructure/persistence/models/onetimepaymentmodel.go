package models

import (
	"time"

	"rebill/internal/shared/constants"
)

// OneTimePaymentModel is the database persistence model for one-time
// payments, keyed by the caller-supplied order identifier.
type OneTimePaymentModel struct {
	ID        uint   `gorm:"primarykey"`
	OrderID   string `gorm:"uniqueIndex;not null;size:100"`
	Payer     string `gorm:"not null;size:100;index:idx_otp_payer"`
	Merchant  string `gorm:"not null;size:100;index:idx_otp_merchant"`
	Amount    int64  `gorm:"not null"`
	Asset     string `gorm:"not null;size:100"`
	Paid      bool   `gorm:"not null;default:false"`
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (OneTimePaymentModel) TableName() string {
	return constants.TableOneTimePayments
}
