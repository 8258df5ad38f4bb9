// Package payment holds the one-time payment aggregate. One-time payments
// live in their own order-identifier namespace, independent of
// subscriptions.
package payment

import (
	"fmt"
	"strings"
	"time"
)

// OneTimePayment records a single caller-funded payment keyed by a
// caller-supplied order identifier. An order identifier maps to at most one
// payment; a duplicate attempt must be rejected without side effects.
type OneTimePayment struct {
	orderID   string
	payer     string
	merchant  string
	amount    int64
	asset     string
	paid      bool
	paidAt    *time.Time
	createdAt time.Time
}

// NewOneTimePayment creates an unpaid payment for the given order.
func NewOneTimePayment(orderID, payer, merchant string, amount int64, assetID string, now time.Time) (*OneTimePayment, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("order ID is required")
	}
	if payer == "" {
		return nil, fmt.Errorf("payer is required")
	}
	if strings.TrimSpace(merchant) == "" {
		return nil, ErrMerchantRequired
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(assetID) == "" {
		return nil, fmt.Errorf("asset is required")
	}

	return &OneTimePayment{
		orderID:   orderID,
		payer:     payer,
		merchant:  merchant,
		amount:    amount,
		asset:     assetID,
		createdAt: now,
	}, nil
}

// ReconstructOneTimePayment reconstructs a payment from persistence
func ReconstructOneTimePayment(
	orderID, payer, merchant string,
	amount int64,
	assetID string,
	paid bool,
	paidAt *time.Time,
	createdAt time.Time,
) (*OneTimePayment, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order ID is required")
	}
	return &OneTimePayment{
		orderID:   orderID,
		payer:     payer,
		merchant:  merchant,
		amount:    amount,
		asset:     assetID,
		paid:      paid,
		paidAt:    paidAt,
		createdAt: createdAt,
	}, nil
}

// OrderID returns the caller-supplied order identifier
func (p *OneTimePayment) OrderID() string {
	return p.orderID
}

// Payer returns the payer identifier
func (p *OneTimePayment) Payer() string {
	return p.payer
}

// Merchant returns the merchant identifier
func (p *OneTimePayment) Merchant() string {
	return p.merchant
}

// Amount returns the paid amount in the asset's smallest unit
func (p *OneTimePayment) Amount() int64 {
	return p.amount
}

// Asset returns the asset identifier
func (p *OneTimePayment) Asset() string {
	return p.asset
}

// IsPaid returns whether the transfer has completed
func (p *OneTimePayment) IsPaid() bool {
	return p.paid
}

// PaidAt returns when the transfer completed
func (p *OneTimePayment) PaidAt() *time.Time {
	return p.paidAt
}

// CreatedAt returns when the payment was created
func (p *OneTimePayment) CreatedAt() time.Time {
	return p.createdAt
}

// MarkAsPaid records the completed transfer. Marking an already-paid
// payment is an error: the order namespace admits one payment only.
func (p *OneTimePayment) MarkAsPaid(now time.Time) error {
	if p.paid {
		return ErrOrderAlreadyPaid
	}

	paid := now
	p.paid = true
	p.paidAt = &paid

	return nil
}
