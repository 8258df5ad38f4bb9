package billing

import "time"

// Event types emitted by the billing domain.
const (
	EventTypePlanCreated               = "plan.created"
	EventTypePlanUpdated               = "plan.updated"
	EventTypeSubscriptionCreated       = "subscription.created"
	EventTypeSubscriptionStatusChanged = "subscription.status_changed"
	EventTypeSubscriptionCancelled     = "subscription.cancelled"
	EventTypePaymentExecuted           = "payment.executed"
	EventTypePaymentFailed             = "payment.failed"
)

// PlanCreatedEvent represents plan creation
type PlanCreatedEvent struct {
	PlanID    string
	Amount    int64
	Asset     string
	Interval  time.Duration
	Merchant  string
	Timestamp time.Time
}

func NewPlanCreatedEvent(p *Plan, now time.Time) *PlanCreatedEvent {
	return &PlanCreatedEvent{
		PlanID:    p.ID(),
		Amount:    p.Amount(),
		Asset:     p.Asset(),
		Interval:  p.Interval(),
		Merchant:  p.Merchant(),
		Timestamp: now,
	}
}

func (e *PlanCreatedEvent) GetEventType() string     { return EventTypePlanCreated }
func (e *PlanCreatedEvent) GetAggregateID() string   { return e.PlanID }
func (e *PlanCreatedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// PlanUpdatedEvent represents a change to the plan's active flag
type PlanUpdatedEvent struct {
	PlanID    string
	Active    bool
	UpdatedBy string
	Timestamp time.Time
}

func NewPlanUpdatedEvent(planID string, active bool, updatedBy string, now time.Time) *PlanUpdatedEvent {
	return &PlanUpdatedEvent{
		PlanID:    planID,
		Active:    active,
		UpdatedBy: updatedBy,
		Timestamp: now,
	}
}

func (e *PlanUpdatedEvent) GetEventType() string     { return EventTypePlanUpdated }
func (e *PlanUpdatedEvent) GetAggregateID() string   { return e.PlanID }
func (e *PlanUpdatedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// SubscriptionCreatedEvent represents subscription creation
type SubscriptionCreatedEvent struct {
	SubscriptionID string
	PlanID         string
	Subscriber     string
	Status         string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Trial          bool
	Timestamp      time.Time
}

func NewSubscriptionCreatedEvent(s *Subscription, trial bool, now time.Time) *SubscriptionCreatedEvent {
	return &SubscriptionCreatedEvent{
		SubscriptionID: s.ID(),
		PlanID:         s.PlanID(),
		Subscriber:     s.Subscriber(),
		Status:         s.Status().String(),
		PeriodStart:    s.CurrentPeriodStart(),
		PeriodEnd:      s.CurrentPeriodEnd(),
		Trial:          trial,
		Timestamp:      now,
	}
}

func (e *SubscriptionCreatedEvent) GetEventType() string     { return EventTypeSubscriptionCreated }
func (e *SubscriptionCreatedEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *SubscriptionCreatedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// SubscriptionStatusChangedEvent represents a status transition
type SubscriptionStatusChangedEvent struct {
	SubscriptionID string
	OldStatus      string
	NewStatus      string
	Timestamp      time.Time
}

func NewSubscriptionStatusChangedEvent(subscriptionID, oldStatus, newStatus string, now time.Time) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		SubscriptionID: subscriptionID,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		Timestamp:      now,
	}
}

func (e *SubscriptionStatusChangedEvent) GetEventType() string {
	return EventTypeSubscriptionStatusChanged
}
func (e *SubscriptionStatusChangedEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *SubscriptionStatusChangedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// SubscriptionCancelledEvent represents cancellation, immediate or deferred
type SubscriptionCancelledEvent struct {
	SubscriptionID string
	PlanID         string
	Immediately    bool
	Timestamp      time.Time
}

func NewSubscriptionCancelledEvent(subscriptionID, planID string, immediately bool, now time.Time) *SubscriptionCancelledEvent {
	return &SubscriptionCancelledEvent{
		SubscriptionID: subscriptionID,
		PlanID:         planID,
		Immediately:    immediately,
		Timestamp:      now,
	}
}

func (e *SubscriptionCancelledEvent) GetEventType() string     { return EventTypeSubscriptionCancelled }
func (e *SubscriptionCancelledEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *SubscriptionCancelledEvent) GetOccurredAt() time.Time { return e.Timestamp }

// PaymentExecutedEvent represents a successful charge
type PaymentExecutedEvent struct {
	SubscriptionID string
	Amount         int64
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Timestamp      time.Time
}

func NewPaymentExecutedEvent(subscriptionID string, amount int64, periodStart, periodEnd, now time.Time) *PaymentExecutedEvent {
	return &PaymentExecutedEvent{
		SubscriptionID: subscriptionID,
		Amount:         amount,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		Timestamp:      now,
	}
}

func (e *PaymentExecutedEvent) GetEventType() string     { return EventTypePaymentExecuted }
func (e *PaymentExecutedEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *PaymentExecutedEvent) GetOccurredAt() time.Time { return e.Timestamp }

// PaymentFailedEvent represents a charge attempt that did not proceed
type PaymentFailedEvent struct {
	SubscriptionID string
	Reason         string
	Timestamp      time.Time
}

func NewPaymentFailedEvent(subscriptionID, reason string, now time.Time) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		SubscriptionID: subscriptionID,
		Reason:         reason,
		Timestamp:      now,
	}
}

func (e *PaymentFailedEvent) GetEventType() string     { return EventTypePaymentFailed }
func (e *PaymentFailedEvent) GetAggregateID() string   { return e.SubscriptionID }
func (e *PaymentFailedEvent) GetOccurredAt() time.Time { return e.Timestamp }
