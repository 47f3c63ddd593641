package services

import (
	"context"
	"errors"
	"time"

	apperrors "os-manager/pkg/errors"

	"go.uber.org/zap"
)

// SweepScheduler runs the reconciliation sweep for all tenants on a fixed
// interval. It is best-effort: a failed or skipped run just waits for the
// next tick.
type SweepScheduler struct {
	ledger   UsageLedgerServiceInterface
	interval time.Duration
	logger   *zap.Logger
}

func NewSweepScheduler(ledger UsageLedgerServiceInterface, interval time.Duration, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		ledger:   ledger,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the scheduler goroutine. It stops when ctx is canceled.
func (s *SweepScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("sweep scheduler disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("sweep scheduler started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("sweep scheduler stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *SweepScheduler) runOnce(ctx context.Context) {
	report, err := s.ledger.Sweep(ctx, "")
	if err != nil {
		if errors.Is(err, apperrors.ErrSweepInProgress) {
			s.logger.Info("scheduled sweep skipped, another sweep is running")
			return
		}
		s.logger.Error("scheduled sweep failed", zap.Error(err))
		return
	}

	if report.CorrectedCount > 0 {
		s.logger.Info("scheduled sweep corrected counters", zap.Int("corrections", report.CorrectedCount))
	}
}
