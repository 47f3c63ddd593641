package services

import (
	"context"
	"errors"
	"testing"

	"os-manager/internal/dto"
	apperrors "os-manager/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLedger struct {
	sweepCalls int
	sweepErr   error
	report     *dto.SweepReportDTO
}

func (s *stubLedger) TrueCount(ctx context.Context, tenantID, equipmentName string) (int64, error) {
	return 0, nil
}

func (s *stubLedger) AdjustUsage(ctx context.Context, tenantID, equipmentName string, delta int64) error {
	return nil
}

func (s *stubLedger) OnOrderCreated(ctx context.Context, tenantID string, equipmentName null.String) {}

func (s *stubLedger) OnOrderEdited(ctx context.Context, tenantID string, oldName, newName null.String) {
}

func (s *stubLedger) LastSweepReport(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubLedger) Sweep(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error) {
	s.sweepCalls++
	if s.sweepErr != nil {
		return nil, s.sweepErr
	}
	if s.report != nil {
		return s.report, nil
	}
	return &dto.SweepReportDTO{Corrections: []dto.CorrectionDTO{}}, nil
}

func TestSchedulerRunOnceSweepsAllTenants(t *testing.T) {
	ledger := &stubLedger{report: &dto.SweepReportDTO{
		CorrectedCount: 1,
		Corrections:    []dto.CorrectionDTO{{TenantID: "t1", Name: "NOTEBOOK", OldValue: 5, NewValue: 3}},
	}}
	scheduler := NewSweepScheduler(ledger, 0, zap.NewNop())

	scheduler.runOnce(context.Background())
	assert.Equal(t, 1, ledger.sweepCalls)
}

func TestSchedulerRunOnceToleratesBusyLock(t *testing.T) {
	ledger := &stubLedger{sweepErr: apperrors.ErrSweepInProgress}
	scheduler := NewSweepScheduler(ledger, 0, zap.NewNop())

	assert.NotPanics(t, func() {
		scheduler.runOnce(context.Background())
	})
}

func TestSchedulerRunOnceToleratesFailure(t *testing.T) {
	ledger := &stubLedger{sweepErr: errors.New("db down")}
	scheduler := NewSweepScheduler(ledger, 0, zap.NewNop())

	assert.NotPanics(t, func() {
		scheduler.runOnce(context.Background())
	})
}

func TestSchedulerDisabledWithZeroInterval(t *testing.T) {
	ledger := &stubLedger{}
	scheduler := NewSweepScheduler(ledger, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)
	cancel()

	assert.Equal(t, 0, ledger.sweepCalls)
}
