// Package billing implements the recurring-billing engine: plan and asset
// management, the subscription lifecycle, renewal charges against the
// external value-transfer ledger, one-time payments and merchant refunds.
//
// All mutating operations run under a process-wide guard; read-only
// queries share its read lock and never observe a half-written mutation.
// Each operation samples the clock exactly once and uses that timestamp
// for every decision it makes.
package billing

import (
	"time"

	"rebill/internal/domain/asset"
	"rebill/internal/domain/billing"
	"rebill/internal/domain/ledger"
	"rebill/internal/domain/payment"
	"rebill/internal/domain/shared/events"
	"rebill/internal/shared/guard"
	"rebill/internal/shared/logger"
)

// DefaultMaxBatchSize bounds BatchCharge input when the config leaves it
// unset.
const DefaultMaxBatchSize = 100

// Config carries the engine's operating parameters.
type Config struct {
	// AdminID is the configured administrator identity; it may manage any
	// plan.
	AdminID string

	// SpenderID is the identity under which payers grant pull
	// authorization to the engine.
	SpenderID string

	// NativeAsset is the ledger's designated native asset. It can never be
	// removed from the registry, and plans denominated in it cannot
	// auto-renew.
	NativeAsset string

	// MaxBatchSize bounds the number of items in one BatchCharge call.
	MaxBatchSize int
}

// Engine is the billing engine service.
type Engine struct {
	assets        asset.Repository
	plans         billing.PlanRepository
	subscriptions billing.SubscriptionRepository
	records       billing.PaymentRecordRepository
	payments      payment.Repository
	ledger        ledger.Ledger
	publisher     events.EventPublisher
	guard         *guard.Guard
	cfg           Config
	logger        logger.Interface
	now           func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a billing engine. The publisher may be nil, in which
// case events are dropped.
func NewEngine(
	assets asset.Repository,
	plans billing.PlanRepository,
	subscriptions billing.SubscriptionRepository,
	records billing.PaymentRecordRepository,
	payments payment.Repository,
	transferLedger ledger.Ledger,
	publisher events.EventPublisher,
	cfg Config,
	log logger.Interface,
	opts ...Option,
) *Engine {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	e := &Engine{
		assets:        assets,
		plans:         plans,
		subscriptions: subscriptions,
		records:       records,
		payments:      payments,
		ledger:        transferLedger,
		publisher:     publisher,
		guard:         guard.New(),
		cfg:           cfg,
		logger:        log,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// publish emits a domain event. Event delivery is best-effort: a full or
// stopped dispatcher never fails the operation that produced the event.
func (e *Engine) publish(event events.DomainEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(event); err != nil {
		e.logger.Warnw("failed to publish event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}
}
