// Package worker provides the renewal charge worker command.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appbilling "rebill/internal/application/billing"
	"rebill/internal/domain/asset"
	"rebill/internal/domain/billing"
	"rebill/internal/domain/payment"
	"rebill/internal/domain/shared/events"
	"rebill/internal/infrastructure/config"
	"rebill/internal/infrastructure/database"
	"rebill/internal/infrastructure/eventlog"
	memledger "rebill/internal/infrastructure/ledger"
	"rebill/internal/infrastructure/pubsub"
	gormrepo "rebill/internal/infrastructure/repository"
	"rebill/internal/infrastructure/repository/memory"
	"rebill/internal/infrastructure/scheduler"
	"rebill/internal/shared/logger"
)

var verbose bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the renewal charge worker",
		Long:  `Scan for due subscriptions on a fixed interval and run renewal charges against the ledger.`,
		RunE:  run,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show source location for all log levels")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
		Verbose:    verbose,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting charge worker", "database_driver", cfg.Database.Driver)

	dispatcher := events.NewInMemoryEventDispatcher(cfg.Billing.EventBufferSize)
	dispatcher.SetErrorCallback(func(event events.DomainEvent, err error) {
		log.Warnw("event handler failed",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	})
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()

	var (
		assetRepo  asset.Repository
		planRepo   billing.PlanRepository
		subRepo    billing.SubscriptionRepository
		recordRepo billing.PaymentRecordRepository
		otpRepo    payment.Repository
	)
	if cfg.Database.Driver == "memory" {
		assetRepo = memory.NewAssetRepository()
		planRepo = memory.NewPlanRepository()
		subRepo = memory.NewSubscriptionRepository()
		recordRepo = memory.NewPaymentRecordRepository()
		otpRepo = memory.NewOneTimePaymentRepository()
	} else {
		if err := database.Init(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}

		assetRepo = gormrepo.NewAssetRepository(database.Get(), log)
		planRepo = gormrepo.NewPlanRepository(database.Get(), log)
		subRepo = gormrepo.NewSubscriptionRepository(database.Get(), log)
		recordRepo = gormrepo.NewPaymentRecordRepository(database.Get(), log)
		otpRepo = gormrepo.NewOneTimePaymentRepository(database.Get(), log)

		// Persist every dispatched event into the audit table.
		eventLog := eventlog.NewGormEventLog(database.Get(), log)
		subscribeAll(dispatcher, eventLog)
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

		eventBus := pubsub.NewRedisBillingEventBus(redisClient, log)
		subscribeAll(dispatcher, eventBus)
	}

	transferLedger := memledger.NewMemoryLedger(cfg.Billing.NativeAsset)

	engine := appbilling.NewEngine(
		assetRepo,
		planRepo,
		subRepo,
		recordRepo,
		otpRepo,
		transferLedger,
		dispatcher,
		appbilling.Config{
			AdminID:      cfg.Billing.AdminID,
			SpenderID:    cfg.Billing.SpenderID,
			NativeAsset:  cfg.Billing.NativeAsset,
			MaxBatchSize: cfg.Billing.MaxBatchSize,
		},
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chargeScheduler := scheduler.NewChargeScheduler(
		engine,
		time.Duration(cfg.Worker.ScanIntervalSeconds)*time.Second,
		cfg.Worker.PageSize,
		log,
	)
	chargeScheduler.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	chargeScheduler.Stop()
	return nil
}

// subscribeAll registers a catch-all handler for every event type the
// engine emits.
func subscribeAll(dispatcher events.EventSubscriber, handler events.EventHandler) {
	for _, eventType := range []string{
		asset.EventTypeAssetAdded,
		asset.EventTypeAssetRemoved,
		billing.EventTypePlanCreated,
		billing.EventTypePlanUpdated,
		billing.EventTypeSubscriptionCreated,
		billing.EventTypeSubscriptionStatusChanged,
		billing.EventTypeSubscriptionCancelled,
		billing.EventTypePaymentExecuted,
		billing.EventTypePaymentFailed,
		payment.EventTypePaymentReceived,
		payment.EventTypeRefunded,
	} {
		// Subscribe only rejects empty types and nil handlers.
		_ = dispatcher.Subscribe(eventType, handler)
	}
}
