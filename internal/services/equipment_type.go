package services

import (
	"context"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	"os-manager/pkg/types"
	"os-manager/pkg/utils"

	"go.uber.org/zap"
)

type EquipmentTypeServiceInterface interface {
	GetEquipmentTypes(ctx context.Context, filter types.Filter) ([]dto.EquipmentTypeDTO, uint64, error)
	FindEquipmentType(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error)
	CreateEquipmentType(ctx context.Context, reqDTO dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error)
	UpdateEquipmentType(ctx context.Context, id uint64, reqDTO dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error)
	DeleteEquipmentType(ctx context.Context, id uint64) error
}

type EquipmentTypeService struct {
	etRepository repositories.EquipmentTypeRepositoryInterface
	ledger       UsageLedgerServiceInterface
	logger       *zap.Logger
}

func NewEquipmentTypeService(
	etRepo repositories.EquipmentTypeRepositoryInterface,
	ledger UsageLedgerServiceInterface,
	logger *zap.Logger,
) EquipmentTypeServiceInterface {
	return &EquipmentTypeService{
		etRepository: etRepo,
		ledger:       ledger,
		logger:       logger,
	}
}

func equipmentTypeEntityToDTO(entity *entities.EquipmentType) *dto.EquipmentTypeDTO {
	if entity == nil {
		return nil
	}
	return &dto.EquipmentTypeDTO{
		ID:         entity.ID,
		Name:       entity.Name,
		Category:   entity.Category,
		Active:     entity.Active,
		UsageCount: entity.UsageCount,
		CreatedAt:  formatTime(entity.CreatedAt),
		UpdatedAt:  formatTime(entity.UpdatedAt),
	}
}

func (s *EquipmentTypeService) GetEquipmentTypes(ctx context.Context, filter types.Filter) ([]dto.EquipmentTypeDTO, uint64, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	items, total, err := s.etRepository.GetEquipmentTypes(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.EquipmentTypeDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *equipmentTypeEntityToDTO(&items[i]))
	}
	return dtos, total, nil
}

func (s *EquipmentTypeService) FindEquipmentType(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := s.etRepository.FindEquipmentType(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return equipmentTypeEntityToDTO(entity), nil
}

// CreateEquipmentType registers a type and seeds its counter from the live
// order count, so a type created after orders already reference its name
// starts out correct instead of at zero.
func (s *EquipmentTypeService) CreateEquipmentType(ctx context.Context, reqDTO dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity := entities.EquipmentType{
		TenantID: tenantID,
		Name:     reqDTO.Name,
		Category: reqDTO.Category,
		Active:   true,
	}
	created, err := s.etRepository.CreateEquipmentType(ctx, entity)
	if err != nil {
		return nil, err
	}

	if count, cntErr := s.ledger.TrueCount(ctx, tenantID, created.Name); cntErr != nil {
		s.logger.Warn("could not seed usage counter for new equipment type; sweep will repair",
			zap.String("tenantId", tenantID),
			zap.String("name", created.Name),
			zap.Error(cntErr),
		)
	} else if count > 0 {
		if setErr := s.etRepository.SetUsage(ctx, tenantID, created.Name, count); setErr != nil {
			s.logger.Warn("could not seed usage counter for new equipment type; sweep will repair",
				zap.String("tenantId", tenantID),
				zap.String("name", created.Name),
				zap.Error(setErr),
			)
		} else {
			created.UsageCount = count
		}
	}

	return equipmentTypeEntityToDTO(created), nil
}

func (s *EquipmentTypeService) UpdateEquipmentType(ctx context.Context, id uint64, reqDTO dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.etRepository.FindEquipmentType(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if reqDTO.Name != nil {
		merged.Name = *reqDTO.Name
	}
	if reqDTO.Category != nil {
		merged.Category = *reqDTO.Category
	}
	if reqDTO.Active != nil {
		merged.Active = *reqDTO.Active
	}

	updated, err := s.etRepository.UpdateEquipmentType(ctx, tenantID, id, merged)
	if err != nil {
		return nil, err
	}

	// a renamed type now tracks a different set of orders
	if repositories.NormalizeEquipmentName(updated.Name) != repositories.NormalizeEquipmentName(current.Name) {
		if count, cntErr := s.ledger.TrueCount(ctx, tenantID, updated.Name); cntErr != nil {
			s.logger.Warn("could not recount renamed equipment type; sweep will repair",
				zap.String("tenantId", tenantID),
				zap.String("name", updated.Name),
				zap.Error(cntErr),
			)
		} else if setErr := s.etRepository.SetUsage(ctx, tenantID, updated.Name, count); setErr != nil {
			s.logger.Warn("could not recount renamed equipment type; sweep will repair",
				zap.String("tenantId", tenantID),
				zap.String("name", updated.Name),
				zap.Error(setErr),
			)
		} else {
			updated.UsageCount = count
		}
	}

	return equipmentTypeEntityToDTO(updated), nil
}

func (s *EquipmentTypeService) DeleteEquipmentType(ctx context.Context, id uint64) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.etRepository.DeleteEquipmentType(ctx, tenantID, id)
}
