package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "rebill/internal/domain/billing/valueobjects"
	apperrors "rebill/internal/shared/errors"
)

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	env.ledger.Credit("alice", testAsset, 250)
	sub, err := env.engine.Subscribe(ctx, "alice", testPlanID, 250)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, uint64(1), sub.PaymentCount())
	assert.Equal(t, env.clock.Now(), sub.CurrentPeriodStart())
	assert.Equal(t, env.clock.Now().Add(testInterval), sub.CurrentPeriodEnd())

	// Only the plan amount moves; the excess stays with the payer.
	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)
	balance, err = env.ledger.BalanceOf(ctx, testMerchant, testAsset)
	require.NoError(t, err)
	assert.Equal(t, testAmount, balance)

	history, err := env.engine.GetPaymentHistory(ctx, sub.ID(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)

	plan, err := env.engine.GetPlan(ctx, testPlanID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), plan.SubscriberCount())
}

func TestSubscribeUnderfunded(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	env.ledger.Credit("alice", testAsset, testAmount)
	_, err := env.engine.Subscribe(ctx, "alice", testPlanID, testAmount-1)
	require.Error(t, err)

	// Nothing was written and nothing moved.
	subs, err := env.engine.GetSubscriptionsByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, subs)
	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, testAmount, balance)
}

func TestSubscribeInactivePlan(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	_, err := env.engine.UpdatePlan(ctx, testMerchant, testPlanID, false)
	require.NoError(t, err)

	env.ledger.Credit("alice", testAsset, testAmount)
	_, err = env.engine.Subscribe(ctx, "alice", testPlanID, testAmount)
	assert.True(t, apperrors.IsState(err))
}

func TestSubscribeWithTrial(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub, err := env.engine.SubscribeWithTrial(ctx, "alice", testPlanID, 7)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, uint64(0), sub.PaymentCount())
	assert.Equal(t, env.clock.Now().Add(7*24*time.Hour), sub.CurrentPeriodEnd())

	history, err := env.engine.GetPaymentHistory(ctx, sub.ID(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), history.Total)

	_, err = env.engine.SubscribeWithTrial(ctx, "bob", testPlanID, 0)
	assert.True(t, apperrors.IsValidation(err), "zero trial days should be rejected")
}

func TestPauseResumeExtendsPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	originalEnd := sub.CurrentPeriodEnd()

	require.NoError(t, env.engine.PauseSubscription(ctx, "alice", sub.ID()))

	pausedFor := 5 * 24 * time.Hour
	env.clock.Advance(pausedFor)
	require.NoError(t, env.engine.ResumeSubscription(ctx, "alice", sub.ID()))

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, got.Status())
	assert.Equal(t, originalEnd.Add(pausedFor), got.CurrentPeriodEnd())
	assert.Nil(t, got.PausedAt())
}

func TestPauseAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")

	err := env.engine.PauseSubscription(ctx, "bob", sub.ID())
	assert.True(t, apperrors.IsAuthorization(err))

	// The merchant may cancel but not pause.
	err = env.engine.PauseSubscription(ctx, testMerchant, sub.ID())
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestResumeNotPaused(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")

	err := env.engine.ResumeSubscription(ctx, "alice", sub.ID())
	assert.True(t, apperrors.IsState(err))
}

func TestCancelImmediately(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	env.clock.Advance(24 * time.Hour)

	require.NoError(t, env.engine.CancelSubscription(ctx, "alice", sub.ID(), true))

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, got.Status())
	assert.Equal(t, env.clock.Now(), got.CurrentPeriodEnd())

	// Terminal states reject further transitions.
	err = env.engine.PauseSubscription(ctx, "alice", sub.ID())
	assert.True(t, apperrors.IsState(err))
	err = env.engine.CancelSubscription(ctx, "alice", sub.ID(), true)
	assert.True(t, apperrors.IsState(err))
}

func TestCancelDeferred(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")
	originalEnd := sub.CurrentPeriodEnd()

	require.NoError(t, env.engine.CancelSubscription(ctx, "alice", sub.ID(), false))

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, got.Status())
	assert.True(t, got.CancelAtPeriodEnd())
	assert.Equal(t, originalEnd, got.CurrentPeriodEnd())
}

func TestCancelByMerchant(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")

	err := env.engine.CancelSubscription(ctx, "stranger", sub.ID(), true)
	assert.True(t, apperrors.IsAuthorization(err))

	require.NoError(t, env.engine.CancelSubscription(ctx, testMerchant, sub.ID(), true))

	got, err := env.engine.GetSubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, got.Status())
}

func TestGetSubscriptionsByPlanPagination(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	env.subscribe(t, "alice")
	env.subscribe(t, "bob")
	env.subscribe(t, "carol")

	subs, total, err := env.engine.GetSubscriptionsByPlan(ctx, testPlanID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, int64(3), total)

	// An offset past the end still reports the true total.
	subs, total, err = env.engine.GetSubscriptionsByPlan(ctx, testPlanID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.Equal(t, int64(3), total)
}
