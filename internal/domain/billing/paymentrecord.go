package billing

import (
	"fmt"
	"time"
)

// PaymentRecord is one entry in a subscription's append-only charge
// history. Records are written once and never mutated or removed.
type PaymentRecord struct {
	id             string
	subscriptionID string
	amount         int64
	chargedAt      time.Time
	periodStart    time.Time
	periodEnd      time.Time
}

// NewPaymentRecord creates a history entry for a successful charge covering
// [periodStart, periodEnd).
func NewPaymentRecord(id, subscriptionID string, amount int64, chargedAt, periodStart, periodEnd time.Time) (*PaymentRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("payment record ID is required")
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("period end must be after period start")
	}

	return &PaymentRecord{
		id:             id,
		subscriptionID: subscriptionID,
		amount:         amount,
		chargedAt:      chargedAt,
		periodStart:    periodStart,
		periodEnd:      periodEnd,
	}, nil
}

// ReconstructPaymentRecord reconstructs a record from persistence
func ReconstructPaymentRecord(id, subscriptionID string, amount int64, chargedAt, periodStart, periodEnd time.Time) (*PaymentRecord, error) {
	return NewPaymentRecord(id, subscriptionID, amount, chargedAt, periodStart, periodEnd)
}

// ID returns the record identifier
func (r *PaymentRecord) ID() string {
	return r.id
}

// SubscriptionID returns the owning subscription
func (r *PaymentRecord) SubscriptionID() string {
	return r.subscriptionID
}

// Amount returns the charged amount
func (r *PaymentRecord) Amount() int64 {
	return r.amount
}

// ChargedAt returns when the charge was taken
func (r *PaymentRecord) ChargedAt() time.Time {
	return r.chargedAt
}

// PeriodStart returns the start of the paid period
func (r *PaymentRecord) PeriodStart() time.Time {
	return r.periodStart
}

// PeriodEnd returns the end of the paid period
func (r *PaymentRecord) PeriodEnd() time.Time {
	return r.periodEnd
}
