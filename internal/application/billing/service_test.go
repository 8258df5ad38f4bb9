package billing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebill/internal/domain/billing"
	memledger "rebill/internal/infrastructure/ledger"
	"rebill/internal/infrastructure/repository/memory"
	apperrors "rebill/internal/shared/errors"
	"rebill/internal/shared/logger"
)

const (
	testAsset    = "usd"
	testNative   = "native"
	testMerchant = "merchant-1"
	testSpender  = "engine-spender"
	testAdmin    = "admin-1"

	testPlanID   = "plan-basic"
	testAmount   = int64(100)
	testInterval = 30 * 24 * time.Hour
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type testEnv struct {
	engine *Engine
	ledger *memledger.MemoryLedger
	clock  *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	led := memledger.NewMemoryLedger(testNative)
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	engine := NewEngine(
		memory.NewAssetRepository(),
		memory.NewPlanRepository(),
		memory.NewSubscriptionRepository(),
		memory.NewPaymentRecordRepository(),
		memory.NewOneTimePaymentRepository(),
		led,
		nil,
		Config{
			AdminID:      testAdmin,
			SpenderID:    testSpender,
			NativeAsset:  testNative,
			MaxBatchSize: 3,
		},
		log,
		WithClock(clock.Now),
	)

	return &testEnv{engine: engine, ledger: led, clock: clock}
}

// withBasicPlan registers the test asset and creates the standard plan.
func (env *testEnv) withBasicPlan(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.engine.AddAsset(ctx, testAsset))
	_, err := env.engine.CreatePlan(ctx, testPlanID, testAmount, testAsset, testInterval, testMerchant)
	require.NoError(t, err)
}

// subscribe funds the subscriber with exactly one charge and enrolls them.
func (env *testEnv) subscribe(t *testing.T, subscriber string) *billing.Subscription {
	t.Helper()
	env.ledger.Credit(subscriber, testAsset, testAmount)
	sub, err := env.engine.Subscribe(context.Background(), subscriber, testPlanID, testAmount)
	require.NoError(t, err)
	return sub
}

// fundRenewal gives the subscriber balance and pull authorization for one
// renewal charge.
func (env *testEnv) fundRenewal(subscriber string) {
	env.ledger.Credit(subscriber, testAsset, testAmount)
	env.ledger.Approve(subscriber, testSpender, testAsset, testAmount)
}

func TestAddRemoveAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.AddAsset(ctx, testAsset))

	supported, err := env.engine.IsAssetSupported(ctx, testAsset)
	require.NoError(t, err)
	assert.True(t, supported)

	err = env.engine.AddAsset(ctx, testAsset)
	assert.True(t, apperrors.IsValidation(err), "duplicate asset should be a validation error")

	require.NoError(t, env.engine.RemoveAsset(ctx, testAsset))
	supported, err = env.engine.IsAssetSupported(ctx, testAsset)
	require.NoError(t, err)
	assert.False(t, supported)

	err = env.engine.RemoveAsset(ctx, testAsset)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveNativeAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.AddAsset(ctx, testNative))

	err := env.engine.RemoveAsset(ctx, testNative)
	assert.True(t, apperrors.IsValidation(err), "native asset must not be removable")
}

func TestCreatePlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.engine.AddAsset(ctx, testAsset))

	plan, err := env.engine.CreatePlan(ctx, testPlanID, testAmount, testAsset, testInterval, testMerchant)
	require.NoError(t, err)
	assert.True(t, plan.IsActive())
	assert.Equal(t, testMerchant, plan.Merchant())

	_, err = env.engine.CreatePlan(ctx, testPlanID, testAmount, testAsset, testInterval, testMerchant)
	assert.True(t, apperrors.IsValidation(err), "duplicate plan ID should be a validation error")

	_, err = env.engine.CreatePlan(ctx, "plan-other", testAmount, "unknown-asset", testInterval, testMerchant)
	assert.True(t, apperrors.IsValidation(err), "unsupported asset should be a validation error")

	_, err = env.engine.CreatePlan(ctx, "plan-short", testAmount, testAsset, time.Hour, testMerchant)
	assert.True(t, apperrors.IsValidation(err), "interval below one day should be a validation error")
}

func TestUpdatePlanAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.withBasicPlan(t)
	ctx := context.Background()

	_, err := env.engine.UpdatePlan(ctx, "stranger", testPlanID, false)
	assert.True(t, apperrors.IsAuthorization(err))

	plan, err := env.engine.UpdatePlan(ctx, testMerchant, testPlanID, false)
	require.NoError(t, err)
	assert.False(t, plan.IsActive())

	plan, err = env.engine.UpdatePlan(ctx, testAdmin, testPlanID, true)
	require.NoError(t, err)
	assert.True(t, plan.IsActive())

	_, err = env.engine.UpdatePlan(ctx, testAdmin, "no-such-plan", true)
	assert.True(t, apperrors.IsNotFound(err))
}
