package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rebill/internal/shared/errors"
)

func TestPay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.engine.AddAsset(ctx, testAsset))

	env.ledger.Credit("alice", testAsset, 300)
	otp, err := env.engine.Pay(ctx, "order-1", "alice", 120, testAsset, testMerchant, 300)
	require.NoError(t, err)
	assert.True(t, otp.IsPaid())
	require.NotNil(t, otp.PaidAt())
	assert.Equal(t, env.clock.Now(), *otp.PaidAt())

	// Only the amount moves; the excess stays with the payer.
	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(180), balance)
	balance, err = env.ledger.BalanceOf(ctx, testMerchant, testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)

	got, err := env.engine.GetPayment(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Payer())
	assert.Equal(t, int64(120), got.Amount())
}

func TestPayDuplicateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.engine.AddAsset(ctx, testAsset))

	env.ledger.Credit("alice", testAsset, 300)
	_, err := env.engine.Pay(ctx, "order-1", "alice", 100, testAsset, testMerchant, 100)
	require.NoError(t, err)

	// The duplicate is rejected before any transfer happens.
	_, err = env.engine.Pay(ctx, "order-1", "alice", 100, testAsset, testMerchant, 100)
	assert.True(t, apperrors.IsValidation(err))

	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)
}

func TestPayUnsupportedAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.Pay(ctx, "order-1", "alice", 100, "unknown-asset", testMerchant, 100)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPayUnderfunded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.engine.AddAsset(ctx, testAsset))

	env.ledger.Credit("alice", testAsset, 100)
	_, err := env.engine.Pay(ctx, "order-1", "alice", 100, testAsset, testMerchant, 99)
	require.Error(t, err)

	_, err = env.engine.GetPayment(ctx, "order-1")
	assert.True(t, apperrors.IsNotFound(err), "a failed transfer leaves no payment behind")
}

func TestRefund(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	sub := env.subscribe(t, "alice")

	err := env.engine.Refund(ctx, "alice", sub.ID(), 50, "")
	assert.True(t, apperrors.IsAuthorization(err), "only the plan merchant may refund")

	// An empty recipient defaults to the subscriber.
	require.NoError(t, env.engine.Refund(ctx, testMerchant, sub.ID(), 50, ""))
	balance, err := env.ledger.BalanceOf(ctx, "alice", testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	require.NoError(t, env.engine.Refund(ctx, testMerchant, sub.ID(), 30, "carol"))
	balance, err = env.ledger.BalanceOf(ctx, "carol", testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	err = env.engine.Refund(ctx, testMerchant, sub.ID(), 0, "")
	assert.True(t, apperrors.IsValidation(err))

	// The refund amount is not capped by what was ever charged; the
	// merchant's own balance is the only limit.
	err = env.engine.Refund(ctx, testMerchant, sub.ID(), 1000, "")
	require.Error(t, err, "merchant balance is 20 after the refunds above")
}

func TestRefundUnknownSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.engine.Refund(ctx, testMerchant, "sub_missing", 50, "")
	assert.True(t, apperrors.IsNotFound(err))
}
