package services

import (
	"context"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	"os-manager/pkg/types"
	"os-manager/pkg/utils"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type CustomerServiceInterface interface {
	GetCustomers(ctx context.Context, filter types.Filter) ([]dto.CustomerDTO, uint64, error)
	FindCustomer(ctx context.Context, id uint64) (*dto.CustomerDTO, error)
	CreateCustomer(ctx context.Context, reqDTO dto.CreateCustomerDTO) (*dto.CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uint64, reqDTO dto.UpdateCustomerDTO) (*dto.CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uint64) error
}

type CustomerService struct {
	customerRepository repositories.CustomerRepositoryInterface
	logger             *zap.Logger
}

func NewCustomerService(customerRepo repositories.CustomerRepositoryInterface, logger *zap.Logger) CustomerServiceInterface {
	return &CustomerService{
		customerRepository: customerRepo,
		logger:             logger,
	}
}

func nullStringPtr(v null.String) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func customerEntityToDTO(entity *entities.Customer) *dto.CustomerDTO {
	if entity == nil {
		return nil
	}
	return &dto.CustomerDTO{
		ID:        entity.ID,
		Name:      entity.Name,
		Phone:     nullStringPtr(entity.Phone),
		Email:     nullStringPtr(entity.Email),
		Document:  nullStringPtr(entity.Document),
		Address:   nullStringPtr(entity.Address),
		CreatedAt: formatTime(entity.CreatedAt),
		UpdatedAt: formatTime(entity.UpdatedAt),
	}
}

func (s *CustomerService) GetCustomers(ctx context.Context, filter types.Filter) ([]dto.CustomerDTO, uint64, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	customers, total, err := s.customerRepository.GetCustomers(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, *customerEntityToDTO(&customers[i]))
	}
	return dtos, total, nil
}

func (s *CustomerService) FindCustomer(ctx context.Context, id uint64) (*dto.CustomerDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := s.customerRepository.FindCustomer(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return customerEntityToDTO(entity), nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, reqDTO dto.CreateCustomerDTO) (*dto.CustomerDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity := entities.Customer{
		TenantID: tenantID,
		Name:     reqDTO.Name,
		Phone:    null.StringFromPtr(reqDTO.Phone),
		Email:    null.StringFromPtr(reqDTO.Email),
		Document: null.StringFromPtr(reqDTO.Document),
		Address:  null.StringFromPtr(reqDTO.Address),
	}
	created, err := s.customerRepository.CreateCustomer(ctx, entity)
	if err != nil {
		return nil, err
	}
	return customerEntityToDTO(created), nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint64, reqDTO dto.UpdateCustomerDTO) (*dto.CustomerDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.customerRepository.FindCustomer(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if reqDTO.Name != nil {
		merged.Name = *reqDTO.Name
	}
	if reqDTO.Phone != nil {
		merged.Phone = null.StringFrom(*reqDTO.Phone)
	}
	if reqDTO.Email != nil {
		merged.Email = null.StringFrom(*reqDTO.Email)
	}
	if reqDTO.Document != nil {
		merged.Document = null.StringFrom(*reqDTO.Document)
	}
	if reqDTO.Address != nil {
		merged.Address = null.StringFrom(*reqDTO.Address)
	}

	updated, err := s.customerRepository.UpdateCustomer(ctx, tenantID, id, merged)
	if err != nil {
		return nil, err
	}
	return customerEntityToDTO(updated), nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint64) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.customerRepository.DeleteCustomer(ctx, tenantID, id)
}
