package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "rebill/internal/domain/billing/valueobjects"
	domainledger "rebill/internal/domain/ledger"
	apperrors "rebill/internal/shared/errors"
)

func TestChargeRenewal(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	firstEnd := sub.CurrentPeriodEnd()

	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.True(t, charged)
	assert.Equal(t, vo.ReasonSuccess, reason)

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.PaymentCount())
	assert.Equal(t, firstEnd, got.CurrentPeriodStart(), "new period anchors at the old period end")
	assert.Equal(t, firstEnd.Add(testInterval), got.CurrentPeriodEnd())

	balance, err := env.ledger.BalanceOf(ctx, testMerchant, testAsset)
	require.NoError(t, err)
	assert.Equal(t, 2*testAmount, balance)

	history, err := env.engine.GetPaymentHistory(ctx, sub.ID(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), history.Total)

	// A second attempt in the same instant is no longer due.
	charged, reason, err = env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonNotDue, reason)
}

func TestChargeNotDue(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.fundRenewal("alice")
	env.clock.Advance(testInterval - time.Second)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonNotDue, reason)

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.PaymentCount())
}

func TestChargeInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.ledger.Approve("alice", testSpender, testAsset, testAmount)
	env.clock.Advance(testInterval)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonInsufficientBalance, reason)

	// A failed eligibility check never touches the subscription.
	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, got.Status())
}

func TestChargeNotApproved(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.ledger.Credit("alice", testAsset, testAmount)
	env.clock.Advance(testInterval)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonNotApproved, reason)
}

func TestChargePausedAndPlanInactive(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	require.NoError(t, env.engine.PauseSubscription(ctx, "alice", sub.ID()))

	_, reason, err := env.engine.CanCharge(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.ReasonPaused, reason)

	// An inactive plan outranks every subscription-level reason.
	_, err = env.engine.UpdatePlan(ctx, testMerchant, testPlanID, false)
	require.NoError(t, err)

	_, reason, err = env.engine.CanCharge(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.ReasonPlanInactive, reason)
}

func TestChargeCancelledSubscription(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	require.NoError(t, env.engine.CancelSubscription(ctx, "alice", sub.ID(), true))

	before, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)

	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonCancelled, reason)

	after, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, before.CurrentPeriodEnd(), after.CurrentPeriodEnd())
	assert.Equal(t, before.PaymentCount(), after.PaymentCount())
}

func TestChargeFinalizesDeferredCancel(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	periodEnd := sub.CurrentPeriodEnd()
	require.NoError(t, env.engine.CancelSubscription(ctx, "alice", sub.ID(), false))

	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonCancelled, reason)

	// The cancellation takes the charge's place; the paid period stands.
	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, got.Status())
	assert.Equal(t, periodEnd, got.CurrentPeriodEnd())
	assert.Equal(t, uint64(1), got.PaymentCount())

	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, testAmount, balance, "no funds move on a deferred cancellation")
}

type pullFailingLedger struct {
	domainledger.Ledger
}

func (l *pullFailingLedger) Pull(ctx context.Context, spender, from, to, asset string, amount int64) error {
	return fmt.Errorf("%w: transfer rejected", domainledger.ErrTransferFailed)
}

func TestChargePullFailureExpires(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	// Eligibility passes on the ledger's word, then the transfer fails.
	env.engine.ledger = &pullFailingLedger{Ledger: env.ledger}

	charged, reason, err := env.engine.Charge(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, charged)
	assert.Equal(t, vo.ReasonInsufficientBalance, reason)

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, got.Status())
	assert.Equal(t, uint64(1), got.PaymentCount())
}

func TestNativeAssetPlanNeverRenews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.AddAsset(ctx, testNative))
	_, err := env.engine.CreatePlan(ctx, "plan-native", testAmount, testNative, testInterval, testMerchant)
	require.NoError(t, err)

	// The first charge is pushed by the caller and works for any asset.
	env.ledger.Credit("alice", testNative, 2*testAmount)
	sub, err := env.engine.Subscribe(ctx, "alice", "plan-native", testAmount)
	require.NoError(t, err)

	env.ledger.Approve("alice", testSpender, testNative, testAmount)
	env.clock.Advance(testInterval)

	_, reason, err := env.engine.CanCharge(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.ReasonNotApproved, reason, "pull authorization does not exist for the native asset")
}

func TestBatchCharge(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	s1 := env.subscribe(t, "alice")
	s2 := env.subscribe(t, "bob")
	require.NoError(t, env.engine.PauseSubscription(ctx, "bob", s2.ID()))

	env.fundRenewal("alice")
	env.clock.Advance(testInterval)

	results, err := env.engine.BatchCharge(ctx, []string{s1.ID(), "sub_missing", s2.ID()})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, s1.ID(), results[0].SubscriptionID)
	assert.True(t, results[0].Charged)
	assert.Equal(t, vo.ReasonSuccess, results[0].Reason)
	require.NoError(t, results[0].Err)

	assert.False(t, results[1].Charged)
	assert.True(t, apperrors.IsNotFound(results[1].Err), "an unknown ID fails its item only")

	assert.False(t, results[2].Charged)
	assert.Equal(t, vo.ReasonPaused, results[2].Reason)
	require.NoError(t, results[2].Err)
}

func TestBatchChargeSizeLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.BatchCharge(ctx, []string{"a", "b", "c", "d"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetPendingCharges(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	due := env.subscribe(t, "alice")
	env.fundRenewal("alice")

	env.clock.Advance(testInterval)
	env.subscribe(t, "bob") // fresh period, not due

	page, err := env.engine.GetPendingCharges(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Subscriptions, 1)
	assert.Equal(t, due.ID(), page.Subscriptions[0].ID())

	// An offset past the eligible set still reports the true total.
	page, err = env.engine.GetPendingCharges(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Empty(t, page.Subscriptions)
}

func TestGetPaymentHistoryUnknownSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.GetPaymentHistory(ctx, "sub_missing", 0, 10)
	assert.True(t, apperrors.IsNotFound(err))
}
