package services

import (
	"context"
	"net/http"
	"time"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RoleAdmin = "ADMIN"

type TenantServiceInterface interface {
	GetTenants(ctx context.Context, limit, offset uint64) ([]dto.TenantDTO, uint64, error)
	FindTenant(ctx context.Context, id string) (*dto.TenantDTO, error)
	CreateTenant(ctx context.Context, reqDTO dto.CreateTenantDTO) (*dto.TenantDTO, error)
	UpdateTenant(ctx context.Context, id string, reqDTO dto.UpdateTenantDTO) (*dto.TenantDTO, error)
}

type TenantService struct {
	tenantRepository repositories.TenantRepositoryInterface
	logger           *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepositoryInterface, logger *zap.Logger) TenantServiceInterface {
	return &TenantService{
		tenantRepository: tenantRepo,
		logger:           logger,
	}
}

func tenantEntityToDTO(entity *entities.Tenant) *dto.TenantDTO {
	if entity == nil {
		return nil
	}
	result := &dto.TenantDTO{
		ID:                 entity.ID,
		Name:               entity.Name,
		PlanCode:           entity.PlanCode,
		SubscriptionStatus: entity.SubscriptionStatus,
		CreatedAt:          formatTime(entity.CreatedAt),
		UpdatedAt:          formatTime(entity.UpdatedAt),
	}
	if entity.SubscriptionExpiresAt.Valid {
		s := entity.SubscriptionExpiresAt.Time.Format(dateLayout)
		result.SubscriptionExpiresAt = &s
	}
	return result
}

func requireAdmin(ctx context.Context) error {
	if utils.GetUserRoleFromCtx(ctx) != RoleAdmin {
		return apperrors.NewHttpError(http.StatusForbidden, "admin role required", apperrors.ErrForbidden, nil)
	}
	return nil
}

func (s *TenantService) GetTenants(ctx context.Context, limit, offset uint64) ([]dto.TenantDTO, uint64, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}

	tenants, total, err := s.tenantRepository.GetTenants(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.TenantDTO, 0, len(tenants))
	for i := range tenants {
		dtos = append(dtos, *tenantEntityToDTO(&tenants[i]))
	}
	return dtos, total, nil
}

// FindTenant returns the caller's own tenant; cross-tenant reads need the
// admin role.
func (s *TenantService) FindTenant(ctx context.Context, id string) (*dto.TenantDTO, error) {
	callerTenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if id != callerTenantID {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}
	}

	entity, err := s.tenantRepository.FindTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	return tenantEntityToDTO(entity), nil
}

func (s *TenantService) CreateTenant(ctx context.Context, reqDTO dto.CreateTenantDTO) (*dto.TenantDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	entity := entities.Tenant{
		ID:                 uuid.NewString(),
		Name:               reqDTO.Name,
		PlanCode:           reqDTO.PlanCode,
		SubscriptionStatus: "ACTIVE",
	}
	created, err := s.tenantRepository.CreateTenant(ctx, entity)
	if err != nil {
		return nil, err
	}
	return tenantEntityToDTO(created), nil
}

func (s *TenantService) UpdateTenant(ctx context.Context, id string, reqDTO dto.UpdateTenantDTO) (*dto.TenantDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	current, err := s.tenantRepository.FindTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if reqDTO.Name != nil {
		merged.Name = *reqDTO.Name
	}
	if reqDTO.PlanCode != nil {
		merged.PlanCode = *reqDTO.PlanCode
	}
	if reqDTO.SubscriptionStatus != nil {
		merged.SubscriptionStatus = *reqDTO.SubscriptionStatus
	}
	if reqDTO.SubscriptionExpiresAt != nil {
		t, parseErr := time.Parse(dateLayout, *reqDTO.SubscriptionExpiresAt)
		if parseErr != nil {
			return nil, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", *reqDTO.SubscriptionExpiresAt)
		}
		merged.SubscriptionExpiresAt = null.TimeFrom(t)
	}

	updated, err := s.tenantRepository.UpdateTenant(ctx, id, merged)
	if err != nil {
		return nil, err
	}
	return tenantEntityToDTO(updated), nil
}
