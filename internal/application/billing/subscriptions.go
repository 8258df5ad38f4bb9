package billing

import (
	"context"
	"errors"
	"fmt"

	"rebill/internal/domain/billing"
	apperrors "rebill/internal/shared/errors"
	"rebill/internal/shared/id"
)

// Subscribe enrolls a payer in a plan and takes the first charge from the
// caller-supplied funds immediately. Excess funds are returned to the
// caller; underfunding fails the whole operation and no subscription is
// created.
func (e *Engine) Subscribe(ctx context.Context, subscriber, planID string, funds int64) (*billing.Subscription, error) {
	var sub *billing.Subscription
	err := e.guard.Do(func() error {
		now := e.now()

		plan, err := e.chargeablePlan(ctx, planID)
		if err != nil {
			return err
		}

		subID, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
		if err != nil {
			return fmt.Errorf("failed to generate subscription ID: %w", err)
		}

		sub, err = billing.NewSubscription(subID, planID, subscriber, plan.Interval(), now)
		if err != nil {
			return apperrors.NewValidationError("invalid subscription", err.Error())
		}

		// First charge is caller-funded. A failed push aborts before any
		// state is written.
		if err := e.ledger.Push(ctx, subscriber, plan.Merchant(), plan.Asset(), plan.Amount(), funds); err != nil {
			e.logger.Warnw("initial charge failed",
				"plan_id", planID,
				"subscriber", subscriber,
				"error", err,
			)
			return fmt.Errorf("initial charge failed: %w", err)
		}

		sub.RecordPayment(now)
		record, err := billing.NewPaymentRecord(
			id.MustGenerateWithPrefix(id.PrefixPaymentRecord, id.DefaultLength),
			sub.ID(), plan.Amount(), now, sub.CurrentPeriodStart(), sub.CurrentPeriodEnd(),
		)
		if err != nil {
			return fmt.Errorf("failed to build payment record: %w", err)
		}

		if err := e.subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := e.records.Append(ctx, record); err != nil {
			return fmt.Errorf("failed to append payment record: %w", err)
		}

		plan.IncrementSubscribers(now)
		if err := e.plans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}

		e.logger.Infow("subscription created",
			"subscription_id", sub.ID(),
			"plan_id", planID,
			"subscriber", subscriber,
		)
		e.publish(billing.NewSubscriptionCreatedEvent(sub, false, now))
		e.publish(billing.NewPaymentExecutedEvent(sub.ID(), plan.Amount(), sub.CurrentPeriodStart(), sub.CurrentPeriodEnd(), now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SubscribeWithTrial enrolls a payer with a trial period. No charge is
// taken and no payment record written until the trial ends.
func (e *Engine) SubscribeWithTrial(ctx context.Context, subscriber, planID string, trialDays int) (*billing.Subscription, error) {
	var sub *billing.Subscription
	err := e.guard.Do(func() error {
		now := e.now()

		plan, err := e.chargeablePlan(ctx, planID)
		if err != nil {
			return err
		}

		subID, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
		if err != nil {
			return fmt.Errorf("failed to generate subscription ID: %w", err)
		}

		sub, err = billing.NewTrialSubscription(subID, planID, subscriber, trialDays, now)
		if err != nil {
			return apperrors.NewValidationError("invalid trial subscription", err.Error())
		}

		if err := e.subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		plan.IncrementSubscribers(now)
		if err := e.plans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}

		e.logger.Infow("trial subscription created",
			"subscription_id", sub.ID(),
			"plan_id", planID,
			"subscriber", subscriber,
			"trial_days", trialDays,
		)
		e.publish(billing.NewSubscriptionCreatedEvent(sub, true, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// PauseSubscription pauses an active subscription. Only the subscriber may
// pause.
func (e *Engine) PauseSubscription(ctx context.Context, caller, subscriptionID string) error {
	return e.guard.Do(func() error {
		now := e.now()

		sub, err := e.requireSubscription(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if !sub.IsOwnedBy(caller) {
			return apperrors.NewAuthorizationError("only the subscriber may pause", subscriptionID)
		}

		oldStatus := sub.Status()
		if err := sub.Pause(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := e.subscriptions.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		e.logger.Infow("subscription paused", "subscription_id", subscriptionID)
		e.publish(billing.NewSubscriptionStatusChangedEvent(subscriptionID, oldStatus.String(), sub.Status().String(), now))
		return nil
	})
}

// ResumeSubscription reactivates a paused subscription. Only the
// subscriber may resume; the paid period is extended by the paused
// duration and a pending deferred cancellation is cleared.
func (e *Engine) ResumeSubscription(ctx context.Context, caller, subscriptionID string) error {
	return e.guard.Do(func() error {
		now := e.now()

		sub, err := e.requireSubscription(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if !sub.IsOwnedBy(caller) {
			return apperrors.NewAuthorizationError("only the subscriber may resume", subscriptionID)
		}

		oldStatus := sub.Status()
		if err := sub.Resume(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := e.subscriptions.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		e.logger.Infow("subscription resumed",
			"subscription_id", subscriptionID,
			"period_end", sub.CurrentPeriodEnd(),
		)
		e.publish(billing.NewSubscriptionStatusChangedEvent(subscriptionID, oldStatus.String(), sub.Status().String(), now))
		return nil
	})
}

// CancelSubscription cancels a subscription, immediately or at period end.
// The subscriber or the plan's merchant may cancel.
func (e *Engine) CancelSubscription(ctx context.Context, caller, subscriptionID string, immediately bool) error {
	return e.guard.Do(func() error {
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

		if !sub.IsOwnedBy(caller) && !plan.IsManagedBy(caller) {
			return apperrors.NewAuthorizationError("only the subscriber or merchant may cancel", subscriptionID)
		}

		oldStatus := sub.Status()
		if err := sub.Cancel(now, immediately); err != nil {
			return mapTransitionErr(err)
		}
		if err := e.subscriptions.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		e.logger.Infow("subscription cancelled",
			"subscription_id", subscriptionID,
			"immediately", immediately,
			"caller", caller,
		)
		if oldStatus != sub.Status() {
			e.publish(billing.NewSubscriptionStatusChangedEvent(subscriptionID, oldStatus.String(), sub.Status().String(), now))
		}
		e.publish(billing.NewSubscriptionCancelledEvent(subscriptionID, sub.PlanID(), immediately, now))
		return nil
	})
}

// GetSubscription returns the subscription or a not found error.
func (e *Engine) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	var sub *billing.Subscription
	err := e.guard.DoRead(func() error {
		var err error
		sub, err = e.subscriptions.GetByID(ctx, subscriptionID)
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		if sub == nil {
			return apperrors.NewNotFoundError("subscription not found", subscriptionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SubscriptionExists reports whether the subscription exists.
func (e *Engine) SubscriptionExists(ctx context.Context, subscriptionID string) (bool, error) {
	var exists bool
	err := e.guard.DoRead(func() error {
		var err error
		exists, err = e.subscriptions.Exists(ctx, subscriptionID)
		return err
	})
	return exists, err
}

// GetSubscriptionsByUser returns all subscriptions of a subscriber.
func (e *Engine) GetSubscriptionsByUser(ctx context.Context, subscriber string) ([]*billing.Subscription, error) {
	var subs []*billing.Subscription
	err := e.guard.DoRead(func() error {
		var err error
		subs, err = e.subscriptions.GetBySubscriber(ctx, subscriber)
		return err
	})
	return subs, err
}

// GetSubscriptionsByPlan returns one page of a plan's subscriptions and
// the true total, regardless of the page requested.
func (e *Engine) GetSubscriptionsByPlan(ctx context.Context, planID string, offset, limit int) ([]*billing.Subscription, int64, error) {
	var (
		subs  []*billing.Subscription
		total int64
	)
	err := e.guard.DoRead(func() error {
		var err error
		subs, total, err = e.subscriptions.ListByPlan(ctx, planID, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// chargeablePlan loads a plan that can accept new enrollments.
func (e *Engine) chargeablePlan(ctx context.Context, planID string) (*billing.Plan, error) {
	plan, err := e.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found", planID)
	}
	if !plan.IsActive() {
		return nil, apperrors.NewStateError("plan is inactive", planID)
	}

	supported, err := e.assets.Exists(ctx, plan.Asset())
	if err != nil {
		return nil, fmt.Errorf("failed to check asset: %w", err)
	}
	if !supported {
		return nil, apperrors.NewValidationError("plan asset not supported", plan.Asset())
	}

	return plan, nil
}

func (e *Engine) requireSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	sub, err := e.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", subscriptionID)
	}
	return sub, nil
}

func mapTransitionErr(err error) error {
	if errors.Is(err, billing.ErrInvalidStatusTransition) {
		return apperrors.NewStateError("invalid status transition", err.Error())
	}
	return err
}
