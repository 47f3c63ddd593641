package services

import (
	"context"
	"time"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/types"
	"os-manager/pkg/utils"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type FinanceServiceInterface interface {
	GetFinanceEntries(ctx context.Context, filter types.Filter) ([]dto.FinanceEntryDTO, uint64, error)
	FindFinanceEntry(ctx context.Context, id uint64) (*dto.FinanceEntryDTO, error)
	CreateFinanceEntry(ctx context.Context, reqDTO dto.CreateFinanceEntryDTO) (*dto.FinanceEntryDTO, error)
	UpdateFinanceEntry(ctx context.Context, id uint64, reqDTO dto.UpdateFinanceEntryDTO) (*dto.FinanceEntryDTO, error)
	DeleteFinanceEntry(ctx context.Context, id uint64) error

	BuildDailySnapshot(ctx context.Context, day string) (*dto.SalesSnapshotDTO, error)
	GetSnapshots(ctx context.Context, from, to string) ([]dto.SalesSnapshotDTO, error)
}

type FinanceService struct {
	financeRepository repositories.FinanceRepositoryInterface
	logger            *zap.Logger
}

func NewFinanceService(financeRepo repositories.FinanceRepositoryInterface, logger *zap.Logger) FinanceServiceInterface {
	return &FinanceService{
		financeRepository: financeRepo,
		logger:            logger,
	}
}

func formatDate(v null.Time) *string {
	if !v.Valid {
		return nil
	}
	s := v.Time.Format(dateLayout)
	return &s
}

func financeEntryToDTO(entity *entities.FinanceEntry) *dto.FinanceEntryDTO {
	if entity == nil {
		return nil
	}
	result := &dto.FinanceEntryDTO{
		ID:          entity.ID,
		Description: entity.Description,
		Amount:      entity.Amount,
		DueDate:     formatDate(entity.DueDate),
		Paid:        entity.Paid,
		CreatedAt:   formatTime(entity.CreatedAt),
		UpdatedAt:   formatTime(entity.UpdatedAt),
	}
	if entity.PaidAt.Valid {
		s := entity.PaidAt.Time.Format("2006-01-02 15:04:05")
		result.PaidAt = &s
	}
	return result
}

func snapshotToDTO(entity *entities.SalesSnapshot) *dto.SalesSnapshotDTO {
	if entity == nil {
		return nil
	}
	return &dto.SalesSnapshotDTO{
		SnapshotDate: entity.SnapshotDate.Format(dateLayout),
		OrdersCount:  entity.OrdersCount,
		GrossTotal:   entity.GrossTotal,
	}
}

func parseDueDate(raw *string) (null.Time, error) {
	if raw == nil || *raw == "" {
		return null.Time{}, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return null.Time{}, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", *raw)
	}
	return null.TimeFrom(t), nil
}

func (s *FinanceService) GetFinanceEntries(ctx context.Context, filter types.Filter) ([]dto.FinanceEntryDTO, uint64, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := s.financeRepository.GetFinanceEntries(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.FinanceEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, *financeEntryToDTO(&entries[i]))
	}
	return dtos, total, nil
}

func (s *FinanceService) FindFinanceEntry(ctx context.Context, id uint64) (*dto.FinanceEntryDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := s.financeRepository.FindFinanceEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return financeEntryToDTO(entity), nil
}

func (s *FinanceService) CreateFinanceEntry(ctx context.Context, reqDTO dto.CreateFinanceEntryDTO) (*dto.FinanceEntryDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(reqDTO.DueDate)
	if err != nil {
		return nil, err
	}

	entity := entities.FinanceEntry{
		TenantID:    tenantID,
		Description: reqDTO.Description,
		Amount:      reqDTO.Amount,
		DueDate:     dueDate,
	}
	created, err := s.financeRepository.CreateFinanceEntry(ctx, entity)
	if err != nil {
		return nil, err
	}
	return financeEntryToDTO(created), nil
}

func (s *FinanceService) UpdateFinanceEntry(ctx context.Context, id uint64, reqDTO dto.UpdateFinanceEntryDTO) (*dto.FinanceEntryDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.financeRepository.FindFinanceEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if reqDTO.Description != nil {
		merged.Description = *reqDTO.Description
	}
	if reqDTO.Amount != nil {
		merged.Amount = *reqDTO.Amount
	}
	if reqDTO.DueDate != nil {
		dueDate, parseErr := parseDueDate(reqDTO.DueDate)
		if parseErr != nil {
			return nil, parseErr
		}
		merged.DueDate = dueDate
	}
	if reqDTO.Paid != nil {
		merged.Paid = *reqDTO.Paid
		if *reqDTO.Paid && !current.Paid {
			merged.PaidAt = null.TimeFrom(time.Now())
		}
		if !*reqDTO.Paid {
			merged.PaidAt = null.Time{}
		}
	}

	updated, err := s.financeRepository.UpdateFinanceEntry(ctx, tenantID, id, merged)
	if err != nil {
		return nil, err
	}
	return financeEntryToDTO(updated), nil
}

func (s *FinanceService) DeleteFinanceEntry(ctx context.Context, id uint64) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.financeRepository.DeleteFinanceEntry(ctx, tenantID, id)
}

// BuildDailySnapshot recomputes one day's delivered-order aggregate.
// An empty day means today. Rebuilding the same day is idempotent.
func (s *FinanceService) BuildDailySnapshot(ctx context.Context, day string) (*dto.SalesSnapshotDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	target := time.Now()
	if day != "" {
		target, err = time.Parse(dateLayout, day)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", day)
		}
	}

	snapshot, err := s.financeRepository.UpsertDailySnapshot(ctx, tenantID, target)
	if err != nil {
		return nil, err
	}
	return snapshotToDTO(snapshot), nil
}

func (s *FinanceService) GetSnapshots(ctx context.Context, from, to string) ([]dto.SalesSnapshotDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	toDate := time.Now()
	fromDate := toDate.AddDate(0, -1, 0)
	if from != "" {
		fromDate, err = time.Parse(dateLayout, from)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", from)
		}
	}
	if to != "" {
		toDate, err = time.Parse(dateLayout, to)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", to)
		}
	}

	snapshots, err := s.financeRepository.GetSnapshots(ctx, tenantID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.SalesSnapshotDTO, 0, len(snapshots))
	for i := range snapshots {
		dtos = append(dtos, *snapshotToDTO(&snapshots[i]))
	}
	return dtos, nil
}
