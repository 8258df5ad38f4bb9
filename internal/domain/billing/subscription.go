package billing

import (
	"fmt"
	"time"

	vo "rebill/internal/domain/billing/valueobjects"
)

// Subscription represents a payer's enrollment in a plan. It owns the
// period clock: [currentPeriodStart, currentPeriodEnd) is the window the
// subscriber has paid for. Terminal subscriptions are retained for audit.
type Subscription struct {
	id                 string
	planID             string
	subscriber         string
	status             vo.SubscriptionStatus
	startAt            time.Time
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	cancelAtPeriodEnd  bool
	pausedAt           *time.Time
	paymentCount       uint64
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates an active subscription whose first paid period is
// [now, now+interval).
func NewSubscription(id, planID, subscriber string, interval time.Duration, now time.Time) (*Subscription, error) {
	return newSubscription(id, planID, subscriber, now, now.Add(interval))
}

// NewTrialSubscription creates an active subscription whose first period is
// a trial of trialDays days. No payment is due until the trial ends.
func NewTrialSubscription(id, planID, subscriber string, trialDays int, now time.Time) (*Subscription, error) {
	if trialDays < 1 {
		return nil, ErrInvalidTrial
	}
	return newSubscription(id, planID, subscriber, now, now.Add(time.Duration(trialDays)*24*time.Hour))
}

func newSubscription(id, planID, subscriber string, periodStart, periodEnd time.Time) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if subscriber == "" {
		return nil, fmt.Errorf("subscriber is required")
	}
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("period end must be after period start")
	}

	return &Subscription{
		id:                 id,
		planID:             planID,
		subscriber:         subscriber,
		status:             vo.StatusActive,
		startAt:            periodStart,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		version:            1,
		createdAt:          periodStart,
		updatedAt:          periodStart,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(
	id, planID, subscriber string,
	status vo.SubscriptionStatus,
	startAt, currentPeriodStart, currentPeriodEnd time.Time,
	cancelAtPeriodEnd bool,
	pausedAt *time.Time,
	paymentCount uint64,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if !currentPeriodEnd.After(currentPeriodStart) {
		return nil, fmt.Errorf("period end must be after period start")
	}

	return &Subscription{
		id:                 id,
		planID:             planID,
		subscriber:         subscriber,
		status:             status,
		startAt:            startAt,
		currentPeriodStart: currentPeriodStart,
		currentPeriodEnd:   currentPeriodEnd,
		cancelAtPeriodEnd:  cancelAtPeriodEnd,
		pausedAt:           pausedAt,
		paymentCount:       paymentCount,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

// ID returns the subscription identifier
func (s *Subscription) ID() string {
	return s.id
}

// PlanID returns the plan identifier
func (s *Subscription) PlanID() string {
	return s.planID
}

// Subscriber returns the subscriber identifier
func (s *Subscription) Subscriber() string {
	return s.subscriber
}

// Status returns the subscription status
func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

// StartAt returns when the subscription was started
func (s *Subscription) StartAt() time.Time {
	return s.startAt
}

// CurrentPeriodStart returns the current period start
func (s *Subscription) CurrentPeriodStart() time.Time {
	return s.currentPeriodStart
}

// CurrentPeriodEnd returns the current period end
func (s *Subscription) CurrentPeriodEnd() time.Time {
	return s.currentPeriodEnd
}

// CancelAtPeriodEnd returns the deferred-cancellation flag
func (s *Subscription) CancelAtPeriodEnd() bool {
	return s.cancelAtPeriodEnd
}

// PausedAt returns when the subscription was paused. Meaningful only while
// the status is paused.
func (s *Subscription) PausedAt() *time.Time {
	return s.pausedAt
}

// PaymentCount returns the number of successful charges taken, equal to the
// number of payment records for the subscription.
func (s *Subscription) PaymentCount() uint64 {
	return s.paymentCount
}

// Version returns the aggregate version for optimistic locking
func (s *Subscription) Version() int {
	return s.version
}

// CreatedAt returns when the subscription was created
func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the subscription was last updated
func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Pause pauses an active subscription and records the pause time.
func (s *Subscription) Pause(now time.Time) error {
	if s.status != vo.StatusActive {
		return ErrInvalidTransition(s.status.String(), vo.StatusPaused.String())
	}

	paused := now
	s.status = vo.StatusPaused
	s.pausedAt = &paused
	s.updatedAt = now
	s.version++

	return nil
}

// Resume reactivates a paused subscription. The paid period is extended by
// exactly the paused duration, and a pending deferred cancellation is
// cleared.
func (s *Subscription) Resume(now time.Time) error {
	if s.status != vo.StatusPaused {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	if s.pausedAt == nil {
		return fmt.Errorf("paused subscription has no pause time")
	}

	s.currentPeriodEnd = s.currentPeriodEnd.Add(now.Sub(*s.pausedAt))
	s.status = vo.StatusActive
	s.pausedAt = nil
	s.cancelAtPeriodEnd = false
	s.updatedAt = now
	s.version++

	return nil
}

// Cancel cancels the subscription. With immediately set, the paid period is
// cut to now and the status becomes cancelled at once; otherwise only the
// cancel-at-period-end flag is set and the transition is applied lazily on
// the next charge attempt.
func (s *Subscription) Cancel(now time.Time, immediately bool) error {
	if immediately {
		if !s.status.CanTransitionTo(vo.StatusCancelled) {
			return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
		}

		s.status = vo.StatusCancelled
		s.currentPeriodEnd = now
		if !s.currentPeriodEnd.After(s.currentPeriodStart) {
			// Keep the period window valid when cancelling before any time
			// has elapsed in the period.
			s.currentPeriodEnd = s.currentPeriodStart.Add(time.Nanosecond)
		}
		s.pausedAt = nil
		s.updatedAt = now
		s.version++
		return nil
	}

	if s.status != vo.StatusActive {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	s.cancelAtPeriodEnd = true
	s.updatedAt = now
	s.version++

	return nil
}

// FinalizeDeferredCancel applies a pending cancel-at-period-end flag. The
// period fields are left untouched: the subscriber keeps what was paid for.
func (s *Subscription) FinalizeDeferredCancel(now time.Time) error {
	if !s.cancelAtPeriodEnd {
		return fmt.Errorf("no deferred cancellation pending")
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	s.status = vo.StatusCancelled
	s.updatedAt = now
	s.version++

	return nil
}

// MarkExpired records the defined outcome of a failed renewal pull. The
// subscriber cannot self-heal an expired subscription.
func (s *Subscription) MarkExpired(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}

	s.status = vo.StatusExpired
	s.updatedAt = now
	s.version++

	return nil
}

// AdvancePeriod moves the period forward by exactly one interval, anchored
// at the old period end rather than the charge time. A late charge does not
// shift future due dates, and a single call never skips intervals.
func (s *Subscription) AdvancePeriod(interval time.Duration, now time.Time) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	s.currentPeriodStart = s.currentPeriodEnd
	s.currentPeriodEnd = s.currentPeriodStart.Add(interval)
	s.updatedAt = now
	s.version++

	return nil
}

// RecordPayment increments the payment count. The caller appends the
// matching payment record.
func (s *Subscription) RecordPayment(now time.Time) {
	s.paymentCount++
	s.updatedAt = now
	s.version++
}

// IsOwnedBy reports whether caller is the subscriber
func (s *Subscription) IsOwnedBy(caller string) bool {
	return caller != "" && caller == s.subscriber
}

// Validate performs domain-level validation
func (s *Subscription) Validate() error {
	if s.id == "" {
		return fmt.Errorf("subscription ID is required")
	}
	if s.planID == "" {
		return fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[s.status] {
		return fmt.Errorf("invalid status: %s", s.status)
	}
	if !s.currentPeriodEnd.After(s.currentPeriodStart) {
		return fmt.Errorf("current period end must be after current period start")
	}
	return nil
}
