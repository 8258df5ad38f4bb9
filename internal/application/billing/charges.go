package billing

import (
	"context"
	"fmt"
	"time"

	"rebill/internal/domain/billing"
	vo "rebill/internal/domain/billing/valueobjects"
	apperrors "rebill/internal/shared/errors"
	"rebill/internal/shared/id"
)

// ChargeResult is the outcome of one item in a batch charge.
type ChargeResult struct {
	SubscriptionID string
	Charged        bool
	Reason         vo.ChargeReason
	Err            error
}

// PendingCharges is one page of currently charge-eligible subscriptions.
// Total is always the true size of the eligible set.
type PendingCharges struct {
	Subscriptions []*billing.Subscription
	Total         int64
}

// PaymentHistory is one page of a subscription's append-only charge
// history. Total is always the true size of the history.
type PaymentHistory struct {
	Records []*billing.PaymentRecord
	Total   int64
}

// CanCharge evaluates renewal eligibility without side effects. The
// evaluation order is fixed: plan inactive, cancelled, paused, not due,
// insufficient balance, not approved, success. First match wins.
func (e *Engine) CanCharge(ctx context.Context, subscriptionID string) (bool, vo.ChargeReason, error) {
	var reason vo.ChargeReason
	err := e.guard.DoRead(func() error {
		now := e.now()

		sub, err := e.requireSubscription(ctx, subscriptionID)
		if err != nil {
			return err
		}

		plan, err := e.plans.GetByID(ctx, sub.PlanID())
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return apperrors.NewNotFoundError("plan not found", sub.PlanID())
		}

		reason = e.evaluateEligibility(ctx, sub, plan, now)
		return nil
	})
	if err != nil {
		return false, "", err
	}
	return reason.IsEligible(), reason, nil
}

// Charge attempts a renewal charge. Ineligibility and transfer failure are
// business outcomes reported through the reason, not errors; the error
// return is reserved for unknown subscriptions and infrastructure
// failures.
func (e *Engine) Charge(ctx context.Context, subscriptionID string) (bool, vo.ChargeReason, error) {
	var (
		charged bool
		reason  vo.ChargeReason
	)
	err := e.guard.Do(func() error {
		var err error
		charged, reason, err = e.chargeLocked(ctx, subscriptionID)
		return err
	})
	if err != nil {
		return false, "", err
	}
	return charged, reason, nil
}

// BatchCharge processes the given subscriptions in order under a single
// guard scope. Items are independent: an unknown identifier or a failed
// charge never affects another item or aborts the batch. The result
// sequence has the same length and order as the input.
func (e *Engine) BatchCharge(ctx context.Context, subscriptionIDs []string) ([]ChargeResult, error) {
	if len(subscriptionIDs) > e.cfg.MaxBatchSize {
		return nil, apperrors.NewValidationError(
			"batch size exceeds maximum",
			fmt.Sprintf("%d > %d", len(subscriptionIDs), e.cfg.MaxBatchSize),
		)
	}

	results := make([]ChargeResult, 0, len(subscriptionIDs))
	err := e.guard.Do(func() error {
		for _, subID := range subscriptionIDs {
			charged, reason, err := e.chargeLocked(ctx, subID)
			results = append(results, ChargeResult{
				SubscriptionID: subID,
				Charged:        charged,
				Reason:         reason,
				Err:            err,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetPendingCharges returns one page of the currently eligible
// subscriptions ordered by period end, then ID. The total is the true
// size of the eligible set even when the offset exceeds it.
func (e *Engine) GetPendingCharges(ctx context.Context, offset, limit int) (*PendingCharges, error) {
	var page *PendingCharges
	err := e.guard.DoRead(func() error {
		now := e.now()

		active, err := e.subscriptions.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		var eligible []*billing.Subscription
		for _, sub := range active {
			plan, err := e.plans.GetByID(ctx, sub.PlanID())
			if err != nil {
				return fmt.Errorf("failed to get plan: %w", err)
			}
			if plan == nil {
				continue
			}
			if e.evaluateEligibility(ctx, sub, plan, now).IsEligible() {
				eligible = append(eligible, sub)
			}
		}

		page = &PendingCharges{
			Subscriptions: paginateSubscriptions(eligible, offset, limit),
			Total:         int64(len(eligible)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetPaymentHistory returns one page of the subscription's charge history
// in charge order. The total is the true history size even when the
// offset exceeds it.
func (e *Engine) GetPaymentHistory(ctx context.Context, subscriptionID string, offset, limit int) (*PaymentHistory, error) {
	var page *PaymentHistory
	err := e.guard.DoRead(func() error {
		if _, err := e.requireSubscription(ctx, subscriptionID); err != nil {
			return err
		}

		records, total, err := e.records.ListBySubscription(ctx, subscriptionID, offset, limit)
		if err != nil {
			return fmt.Errorf("failed to list payment records: %w", err)
		}

		page = &PaymentHistory{Records: records, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// chargeLocked runs one charge attempt. The caller holds the guard.
func (e *Engine) chargeLocked(ctx context.Context, subscriptionID string) (bool, vo.ChargeReason, error) {
	now := e.now()

	sub, err := e.requireSubscription(ctx, subscriptionID)
	if err != nil {
		return false, "", err
	}

	plan, err := e.plans.GetByID(ctx, sub.PlanID())
	if err != nil {
		return false, "", fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return false, "", apperrors.NewNotFoundError("plan not found", sub.PlanID())
	}

	reason := e.evaluateEligibility(ctx, sub, plan, now)
	if !reason.IsEligible() {
		e.publish(billing.NewPaymentFailedEvent(sub.ID(), reason.String(), now))
		return false, reason, nil
	}

	// A pending deferred cancellation is applied on the charge attempt
	// instead of taking the charge.
	if sub.CancelAtPeriodEnd() {
		oldStatus := sub.Status()
		if err := sub.FinalizeDeferredCancel(now); err != nil {
			return false, "", fmt.Errorf("failed to finalize cancellation: %w", err)
		}
		if err := e.subscriptions.Update(ctx, sub); err != nil {
			return false, "", fmt.Errorf("failed to update subscription: %w", err)
		}

		e.logger.Infow("deferred cancellation applied", "subscription_id", sub.ID())
		e.publish(billing.NewSubscriptionStatusChangedEvent(sub.ID(), oldStatus.String(), sub.Status().String(), now))
		e.publish(billing.NewSubscriptionCancelledEvent(sub.ID(), sub.PlanID(), false, now))
		return false, vo.ReasonCancelled, nil
	}

	if err := e.ledger.Pull(ctx, e.cfg.SpenderID, sub.Subscriber(), plan.Merchant(), plan.Asset(), plan.Amount()); err != nil {
		// A failed pull is the defined trigger for expiry; the period
		// fields stay untouched.
		oldStatus := sub.Status()
		if expireErr := sub.MarkExpired(now); expireErr != nil {
			return false, "", fmt.Errorf("failed to expire subscription: %w", expireErr)
		}
		if updateErr := e.subscriptions.Update(ctx, sub); updateErr != nil {
			return false, "", fmt.Errorf("failed to update subscription: %w", updateErr)
		}

		e.logger.Warnw("renewal pull failed, subscription expired",
			"subscription_id", sub.ID(),
			"error", err,
		)
		e.publish(billing.NewSubscriptionStatusChangedEvent(sub.ID(), oldStatus.String(), sub.Status().String(), now))
		e.publish(billing.NewPaymentFailedEvent(sub.ID(), vo.ReasonInsufficientBalance.String(), now))
		return false, vo.ReasonInsufficientBalance, nil
	}

	if err := sub.AdvancePeriod(plan.Interval(), now); err != nil {
		return false, "", fmt.Errorf("failed to advance period: %w", err)
	}
	sub.RecordPayment(now)

	record, err := billing.NewPaymentRecord(
		id.MustGenerateWithPrefix(id.PrefixPaymentRecord, id.DefaultLength),
		sub.ID(), plan.Amount(), now, sub.CurrentPeriodStart(), sub.CurrentPeriodEnd(),
	)
	if err != nil {
		return false, "", fmt.Errorf("failed to build payment record: %w", err)
	}

	if err := e.subscriptions.Update(ctx, sub); err != nil {
		return false, "", fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := e.records.Append(ctx, record); err != nil {
		return false, "", fmt.Errorf("failed to append payment record: %w", err)
	}

	e.logger.Infow("renewal charged",
		"subscription_id", sub.ID(),
		"amount", plan.Amount(),
		"period_start", sub.CurrentPeriodStart(),
		"period_end", sub.CurrentPeriodEnd(),
	)
	e.publish(billing.NewPaymentExecutedEvent(sub.ID(), plan.Amount(), sub.CurrentPeriodStart(), sub.CurrentPeriodEnd(), now))
	return true, vo.ReasonSuccess, nil
}

// evaluateEligibility applies the fixed eligibility order. Terminal
// statuses report cancelled; expiry has no reason of its own.
func (e *Engine) evaluateEligibility(ctx context.Context, sub *billing.Subscription, plan *billing.Plan, now time.Time) vo.ChargeReason {
	if !plan.IsActive() {
		return vo.ReasonPlanInactive
	}
	if sub.Status().IsTerminal() {
		return vo.ReasonCancelled
	}
	if sub.Status() == vo.StatusPaused {
		return vo.ReasonPaused
	}
	if now.Before(sub.CurrentPeriodEnd()) {
		return vo.ReasonNotDue
	}

	balance, err := e.ledger.BalanceOf(ctx, sub.Subscriber(), plan.Asset())
	if err != nil || balance < plan.Amount() {
		return vo.ReasonInsufficientBalance
	}

	authorized, err := e.ledger.AuthorizedAmount(ctx, sub.Subscriber(), e.cfg.SpenderID, plan.Asset())
	if err != nil || authorized < plan.Amount() {
		return vo.ReasonNotApproved
	}

	return vo.ReasonSuccess
}

func paginateSubscriptions(subs []*billing.Subscription, offset, limit int) []*billing.Subscription {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(subs) {
		return nil
	}
	end := len(subs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return subs[offset:end]
}
