package billing

import (
	"context"
	"fmt"
	"time"

	"rebill/internal/domain/billing"
	apperrors "rebill/internal/shared/errors"
)

// CreatePlan creates an active plan under a caller-supplied identifier.
func (e *Engine) CreatePlan(ctx context.Context, planID string, amount int64, assetID string, interval time.Duration, merchant string) (*billing.Plan, error) {
	var plan *billing.Plan
	err := e.guard.Do(func() error {
		now := e.now()

		exists, err := e.plans.Exists(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to check plan: %w", err)
		}
		if exists {
			return apperrors.NewValidationError("plan ID already used", planID)
		}

		supported, err := e.assets.Exists(ctx, assetID)
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if !supported {
			return apperrors.NewValidationError("asset not supported", assetID)
		}

		plan, err = billing.NewPlan(planID, amount, assetID, interval, merchant, now)
		if err != nil {
			return apperrors.NewValidationError("invalid plan", err.Error())
		}

		if err := e.plans.Create(ctx, plan); err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		e.logger.Infow("plan created",
			"plan_id", plan.ID(),
			"amount", plan.Amount(),
			"asset", plan.Asset(),
			"interval", plan.Interval(),
			"merchant", plan.Merchant(),
		)
		e.publish(billing.NewPlanCreatedEvent(plan, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan flips the plan's active flag. Only the plan's merchant or the
// configured administrator may call it.
func (e *Engine) UpdatePlan(ctx context.Context, caller, planID string, active bool) (*billing.Plan, error) {
	var plan *billing.Plan
	err := e.guard.Do(func() error {
		now := e.now()

		var err error
		plan, err = e.plans.GetByID(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return apperrors.NewNotFoundError("plan not found", planID)
		}

		if !plan.IsManagedBy(caller) && !e.isAdmin(caller) {
			return apperrors.NewAuthorizationError("caller may not manage plan", planID)
		}

		plan.SetActive(active, now)
		if err := e.plans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}

		e.logger.Infow("plan updated", "plan_id", planID, "active", active, "caller", caller)
		e.publish(billing.NewPlanUpdatedEvent(planID, active, caller, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns the plan or a not found error.
func (e *Engine) GetPlan(ctx context.Context, planID string) (*billing.Plan, error) {
	var plan *billing.Plan
	err := e.guard.DoRead(func() error {
		var err error
		plan, err = e.plans.GetByID(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return apperrors.NewNotFoundError("plan not found", planID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// PlanExists reports whether the plan exists.
func (e *Engine) PlanExists(ctx context.Context, planID string) (bool, error) {
	var exists bool
	err := e.guard.DoRead(func() error {
		var err error
		exists, err = e.plans.Exists(ctx, planID)
		return err
	})
	return exists, err
}

func (e *Engine) isAdmin(caller string) bool {
	return caller != "" && caller == e.cfg.AdminID
}
