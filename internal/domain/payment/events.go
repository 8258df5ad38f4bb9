package payment

import "time"

// Event types emitted by the one-time payment domain.
const (
	EventTypePaymentReceived = "payment.received"
	EventTypeRefunded        = "payment.refunded"
)

// PaymentReceivedEvent represents a completed one-time payment
type PaymentReceivedEvent struct {
	OrderID   string
	Payer     string
	Merchant  string
	Amount    int64
	Asset     string
	Timestamp time.Time
}

func NewPaymentReceivedEvent(p *OneTimePayment, now time.Time) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		OrderID:   p.OrderID(),
		Payer:     p.Payer(),
		Merchant:  p.Merchant(),
		Amount:    p.Amount(),
		Asset:     p.Asset(),
		Timestamp: now,
	}
}

func (e *PaymentReceivedEvent) GetEventType() string     { return EventTypePaymentReceived }
func (e *PaymentReceivedEvent) GetAggregateID() string   { return e.OrderID }
func (e *PaymentReceivedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// RefundedEvent represents a merchant-funded refund against a subscription
type RefundedEvent struct {
	SubscriptionID string
	To             string
	Amount         int64
	Asset          string
	Timestamp      time.Time
}

func NewRefundedEvent(subscriptionID, to string, amount int64, assetID string, now time.Time) *RefundedEvent {
	return &RefundedEvent{
		SubscriptionID: subscriptionID,
		To:             to,
		Amount:         amount,
		Asset:          assetID,
		Timestamp:      now,
	}
}

func (e *RefundedEvent) GetEventType() string     { return EventTypeRefunded }
func (e *RefundedEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *RefundedEvent) GetOccurredAt() time.Time { return e.Timestamp }
