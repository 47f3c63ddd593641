package services

import (
	"context"
	"encoding/json"
	"time"

	"os-manager/internal/dto"
	"os-manager/internal/repositories"
	apperrors "os-manager/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

// UsageLedgerService keeps equipment_types.usage_count consistent with the
// number of live service orders referencing each equipment name, per tenant.
//
// Counter adjustments on the create/edit paths are best-effort by contract:
// an order save never fails because of a counter problem. The sweep is the
// authority of last resort and overwrites whatever drift the fast path left
// behind.
type UsageLedgerServiceInterface interface {
	TrueCount(ctx context.Context, tenantID, equipmentName string) (int64, error)
	AdjustUsage(ctx context.Context, tenantID, equipmentName string, delta int64) error
	OnOrderCreated(ctx context.Context, tenantID string, equipmentName null.String)
	OnOrderEdited(ctx context.Context, tenantID string, oldName, newName null.String)
	Sweep(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error)
	LastSweepReport(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error)
}

type UsageLedgerService struct {
	etRepository    repositories.EquipmentTypeRepositoryInterface
	orderRepository repositories.ServiceOrderRepositoryInterface
	cacheRepository repositories.CacheRepositoryInterface
	sweepLockTTL    time.Duration
	logger          *zap.Logger
}

func NewUsageLedgerService(
	etRepo repositories.EquipmentTypeRepositoryInterface,
	orderRepo repositories.ServiceOrderRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	sweepLockTTL time.Duration,
	logger *zap.Logger,
) UsageLedgerServiceInterface {
	return &UsageLedgerService{
		etRepository:    etRepo,
		orderRepository: orderRepo,
		cacheRepository: cacheRepo,
		sweepLockTTL:    sweepLockTTL,
		logger:          logger,
	}
}

// TrueCount asks the store how many live orders reference the name. A store
// failure surfaces as DataAccessError; a failed count is never zero.
func (s *UsageLedgerService) TrueCount(ctx context.Context, tenantID, equipmentName string) (int64, error) {
	if tenantID == "" {
		return 0, apperrors.NewInvalidInputError("tenantID must not be empty")
	}
	if repositories.NormalizeEquipmentName(equipmentName) == "" {
		return 0, apperrors.NewInvalidInputError("equipmentName must not be empty")
	}

	count, err := s.orderRepository.CountByEquipmentName(ctx, tenantID, equipmentName)
	if err != nil {
		return 0, apperrors.NewDataAccessError("CountByEquipmentName", err)
	}
	return count, nil
}

// AdjustUsage applies a signed delta to one counter. A name without a
// matching equipment type is a logged no-op: free-text equipment names must
// never block an order save.
func (s *UsageLedgerService) AdjustUsage(ctx context.Context, tenantID, equipmentName string, delta int64) error {
	found, err := s.etRepository.AdjustUsage(ctx, tenantID, equipmentName, delta)
	if err != nil {
		return &apperrors.CounterWriteFailure{TenantID: tenantID, Name: equipmentName, Delta: delta, Err: err}
	}
	if !found {
		s.logger.Warn("usage adjustment targeted unknown equipment type",
			zap.String("tenantId", tenantID),
			zap.String("name", equipmentName),
			zap.Int64("delta", delta),
		)
	}
	return nil
}

// OnOrderCreated increments the counter for a freshly inserted order.
// Best-effort: failures are logged, never returned.
func (s *UsageLedgerService) OnOrderCreated(ctx context.Context, tenantID string, equipmentName null.String) {
	name := normalizedOrEmpty(equipmentName)
	if name == "" {
		return
	}
	if err := s.AdjustUsage(ctx, tenantID, name, +1); err != nil {
		s.logger.Error("usage counter increment failed after order create; sweep will repair",
			zap.String("tenantId", tenantID),
			zap.String("name", name),
			zap.Error(err),
		)
	}
}

// OnOrderEdited moves one usage unit from the old name to the new one.
// oldName must be the value read from the store BEFORE the order update was
// applied. Same name (case-insensitive) means no counter traffic at all.
func (s *UsageLedgerService) OnOrderEdited(ctx context.Context, tenantID string, oldName, newName null.String) {
	oldN := normalizedOrEmpty(oldName)
	newN := normalizedOrEmpty(newName)
	if oldN == newN {
		return
	}

	if oldN != "" {
		if err := s.AdjustUsage(ctx, tenantID, oldN, -1); err != nil {
			s.logger.Error("usage counter decrement failed after order edit; sweep will repair",
				zap.String("tenantId", tenantID),
				zap.String("name", oldN),
				zap.Error(err),
			)
		}
	}
	if newN != "" {
		if err := s.AdjustUsage(ctx, tenantID, newN, +1); err != nil {
			s.logger.Error("usage counter increment failed after order edit; sweep will repair",
				zap.String("tenantId", tenantID),
				zap.String("name", newN),
				zap.Error(err),
			)
		}
	}
}

// Sweep recounts every equipment type (one tenant, or all when tenantID is
// empty) and overwrites stale counters. Running it twice back to back with
// no order traffic in between yields zero corrections the second time.
func (s *UsageLedgerService) Sweep(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error) {
	lockKey := sweepLockKey(tenantID)
	acquired, err := s.cacheRepository.SetNX(ctx, lockKey, time.Now().Unix(), s.sweepLockTTL)
	if err != nil {
		// a broken lock backend should not make reconciliation impossible
		s.logger.Warn("sweep lock unavailable, proceeding without it", zap.Error(err))
	} else if !acquired {
		return nil, apperrors.ErrSweepInProgress
	} else {
		defer func() {
			if delErr := s.cacheRepository.Del(context.Background(), lockKey); delErr != nil {
				s.logger.Warn("failed to release sweep lock", zap.String("key", lockKey), zap.Error(delErr))
			}
		}()
	}

	equipmentTypes, err := s.etRepository.ListForSweep(ctx, tenantID)
	if err != nil {
		return nil, apperrors.NewDataAccessError("ListForSweep", err)
	}

	report := &dto.SweepReportDTO{Corrections: make([]dto.CorrectionDTO, 0)}
	for _, et := range equipmentTypes {
		trueCount, err := s.orderRepository.CountByEquipmentName(ctx, et.TenantID, et.Name)
		if err != nil {
			// never write a counter from a failed count
			return nil, apperrors.NewDataAccessError("CountByEquipmentName", err)
		}
		if trueCount == et.UsageCount {
			continue
		}

		if err := s.etRepository.SetUsage(ctx, et.TenantID, et.Name, trueCount); err != nil {
			return nil, apperrors.NewDataAccessError("SetUsage", err)
		}
		report.Corrections = append(report.Corrections, dto.CorrectionDTO{
			TenantID: et.TenantID,
			Name:     et.Name,
			OldValue: et.UsageCount,
			NewValue: trueCount,
		})
		s.logger.Info("usage counter corrected",
			zap.String("tenantId", et.TenantID),
			zap.String("name", et.Name),
			zap.Int64("oldValue", et.UsageCount),
			zap.Int64("newValue", trueCount),
		)
	}

	report.CorrectedCount = len(report.Corrections)
	s.cacheReport(ctx, tenantID, report)
	return report, nil
}

func (s *UsageLedgerService) cacheReport(ctx context.Context, tenantID string, report *dto.SweepReportDTO) {
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cacheRepository.Set(ctx, sweepReportKey(tenantID), raw, 24*time.Hour); err != nil {
		s.logger.Warn("failed to cache sweep report", zap.Error(err))
	}
}

// LastSweepReport returns the most recent sweep result for the tenant. A
// missing or unreadable cache entry reads as not found.
func (s *UsageLedgerService) LastSweepReport(ctx context.Context, tenantID string) (*dto.SweepReportDTO, error) {
	raw, err := s.cacheRepository.Get(ctx, sweepReportKey(tenantID))
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	var report dto.SweepReportDTO
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return &report, nil
}

func normalizedOrEmpty(name null.String) string {
	if !name.Valid {
		return ""
	}
	return repositories.NormalizeEquipmentName(name.String)
}

func sweepLockKey(tenantID string) string {
	if tenantID == "" {
		return "ledger:sweep:all"
	}
	return "ledger:sweep:" + tenantID
}

func sweepReportKey(tenantID string) string {
	if tenantID == "" {
		return "ledger:sweep-report:all"
	}
	return "ledger:sweep-report:" + tenantID
}
