// Package scheduler runs the periodic renewal charge scan.
package scheduler

import (
	"context"
	"sync"
	"time"

	appbilling "rebill/internal/application/billing"
	"rebill/internal/shared/logger"
)

// ChargeScheduler periodically scans for charge-eligible subscriptions
// and runs them through the engine in batches.
type ChargeScheduler struct {
	engine   *appbilling.Engine
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
	pageSize int
}

func NewChargeScheduler(
	engine *appbilling.Engine,
	interval time.Duration,
	pageSize int,
	logger logger.Interface,
) *ChargeScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ChargeScheduler{
		engine:   engine,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
		pageSize: pageSize,
	}
}

// Start starts the scheduler loop in the background.
func (s *ChargeScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting charge scheduler", "interval", s.interval, "page_size", s.pageSize)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runChargeLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully and waits for the running scan to
// complete. Safe to call multiple times.
func (s *ChargeScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping charge scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("charge scheduler stopped")
	})
}

func (s *ChargeScheduler) runChargeLoop(ctx context.Context) {
	// Run immediately on startup to pick up charges that came due while
	// the worker was down.
	s.processDueCharges(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("charge scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.processDueCharges(ctx)
		}
	}
}

func (s *ChargeScheduler) processDueCharges(ctx context.Context) {
	startTime := time.Now()

	var charged, failed int
	for {
		// Always scan page zero: a charged subscription leaves the
		// eligible set, so the next page shifts into its place.
		page, err := s.engine.GetPendingCharges(ctx, 0, s.pageSize)
		if err != nil {
			s.logger.Errorw("failed to get pending charges", "error", err)
			return
		}
		if len(page.Subscriptions) == 0 {
			break
		}

		ids := make([]string, 0, len(page.Subscriptions))
		for _, sub := range page.Subscriptions {
			ids = append(ids, sub.ID())
		}

		results, err := s.engine.BatchCharge(ctx, ids)
		if err != nil {
			s.logger.Errorw("failed to run charge batch", "batch_size", len(ids), "error", err)
			return
		}

		progressed := false
		for _, result := range results {
			if result.Err != nil {
				s.logger.Warnw("charge attempt errored",
					"subscription_id", result.SubscriptionID,
					"error", result.Err,
				)
				failed++
				continue
			}
			if result.Charged {
				charged++
				progressed = true
			} else {
				failed++
			}
		}
		// A batch with no successful charge cannot shrink the eligible
		// set further; leave the rest for the next tick.
		if !progressed {
			break
		}
	}

	if charged > 0 || failed > 0 {
		s.logger.Infow("charge scan completed",
			"charged", charged,
			"failed", failed,
			"duration", time.Since(startTime),
		)
	}
}
