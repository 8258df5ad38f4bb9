package billing

import (
	"context"
	"fmt"

	"rebill/internal/domain/payment"
	apperrors "rebill/internal/shared/errors"
)

// Pay executes a caller-funded one-time payment to a merchant under a
// caller-supplied order identifier. Duplicate order identifiers are
// rejected before any transfer happens; excess funds are returned to the
// payer by the ledger.
func (e *Engine) Pay(ctx context.Context, orderID, payer string, amount int64, assetID, merchant string, funds int64) (*payment.OneTimePayment, error) {
	var otp *payment.OneTimePayment
	err := e.guard.Do(func() error {
		now := e.now()

		exists, err := e.payments.Exists(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to check order: %w", err)
		}
		if exists {
			return apperrors.NewValidationError("order ID already used", orderID)
		}

		supported, err := e.assets.Exists(ctx, assetID)
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if !supported {
			return apperrors.NewValidationError("asset not supported", assetID)
		}

		otp, err = payment.NewOneTimePayment(orderID, payer, merchant, amount, assetID, now)
		if err != nil {
			return apperrors.NewValidationError("invalid payment", err.Error())
		}

		if err := e.ledger.Push(ctx, payer, merchant, assetID, amount, funds); err != nil {
			e.logger.Warnw("one-time payment transfer failed",
				"order_id", orderID,
				"payer", payer,
				"error", err,
			)
			return fmt.Errorf("payment transfer failed: %w", err)
		}

		if err := otp.MarkAsPaid(now); err != nil {
			return fmt.Errorf("failed to mark payment paid: %w", err)
		}
		if err := e.payments.Create(ctx, otp); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		e.logger.Infow("one-time payment received",
			"order_id", orderID,
			"payer", payer,
			"merchant", merchant,
			"amount", amount,
			"asset", assetID,
		)
		e.publish(payment.NewPaymentReceivedEvent(otp, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return otp, nil
}

// GetPayment returns the one-time payment for the order or a not found
// error.
func (e *Engine) GetPayment(ctx context.Context, orderID string) (*payment.OneTimePayment, error) {
	var otp *payment.OneTimePayment
	err := e.guard.DoRead(func() error {
		var err error
		otp, err = e.payments.GetByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}
		if otp == nil {
			return apperrors.NewNotFoundError("payment not found", orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return otp, nil
}

// Refund sends a merchant-funded refund against a subscription. Only the
// plan's merchant may refund. The amount is not capped by what was ever
// charged, and the subscription's state is left untouched. An empty
// recipient defaults to the subscriber.
func (e *Engine) Refund(ctx context.Context, caller, subscriptionID string, amount int64, to string) error {
	return e.guard.Do(func() error {
		now := e.now()

		if amount <= 0 {
			return apperrors.NewValidationError("refund amount must be positive", subscriptionID)
		}

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

		if !plan.IsManagedBy(caller) {
			return apperrors.NewAuthorizationError("only the plan merchant may refund", subscriptionID)
		}

		if to == "" {
			to = sub.Subscriber()
		}

		if err := e.ledger.Push(ctx, plan.Merchant(), to, plan.Asset(), amount, amount); err != nil {
			e.logger.Warnw("refund transfer failed",
				"subscription_id", subscriptionID,
				"to", to,
				"error", err,
			)
			return fmt.Errorf("refund transfer failed: %w", err)
		}

		e.logger.Infow("refund sent",
			"subscription_id", subscriptionID,
			"to", to,
			"amount", amount,
			"asset", plan.Asset(),
		)
		e.publish(payment.NewRefundedEvent(subscriptionID, to, amount, plan.Asset(), now))
		return nil
	})
}
