package services

import (
	"context"
	"time"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/events"
	"os-manager/internal/repositories"
	"os-manager/pkg/eventbus"
	"os-manager/pkg/types"
	"os-manager/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ServiceOrderServiceInterface interface {
	GetServiceOrders(ctx context.Context, filter types.Filter) ([]dto.ServiceOrderDTO, uint64, error)
	FindServiceOrder(ctx context.Context, id uint64) (*dto.ServiceOrderDTO, error)
	CreateServiceOrder(ctx context.Context, reqDTO dto.CreateServiceOrderDTO) (*dto.ServiceOrderDTO, error)
	UpdateServiceOrder(ctx context.Context, id uint64, reqDTO dto.UpdateServiceOrderDTO) (*dto.ServiceOrderDTO, error)
	SoftDeleteServiceOrder(ctx context.Context, id uint64) error
	GetOrderEvents(ctx context.Context, orderID uint64) ([]dto.OrderEventDTO, error)
}

type ServiceOrderService struct {
	pool      *pgxpool.Pool
	orderRepo repositories.ServiceOrderRepositoryInterface
	ledger    UsageLedgerServiceInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewServiceOrderService(
	pool *pgxpool.Pool,
	orderRepo repositories.ServiceOrderRepositoryInterface,
	ledger UsageLedgerServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) ServiceOrderServiceInterface {
	return &ServiceOrderService{
		pool:      pool,
		orderRepo: orderRepo,
		ledger:    ledger,
		bus:       bus,
		logger:    logger,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02 15:04:05")
	return &s
}

func orderEntityToDTO(entity *entities.ServiceOrder) *dto.ServiceOrderDTO {
	if entity == nil {
		return nil
	}
	result := &dto.ServiceOrderDTO{
		ID:          entity.ID,
		OrderNumber: entity.OrderNumber,
		Defect:      entity.Defect,
		Status:      entity.Status,
		LaborCost:   entity.LaborCost,
		PartsCost:   entity.PartsCost,
		Total:       entity.Total,
		CreatedAt:   formatTime(entity.CreatedAt),
		UpdatedAt:   formatTime(entity.UpdatedAt),
	}
	if entity.CustomerID.Valid {
		result.CustomerID = &entity.CustomerID.Int64
	}
	if entity.EquipmentName.Valid {
		result.EquipmentName = &entity.EquipmentName.String
	}
	if entity.Technician.Valid {
		result.Technician = &entity.Technician.String
	}
	return result
}

func (s *ServiceOrderService) GetServiceOrders(ctx context.Context, filter types.Filter) ([]dto.ServiceOrderDTO, uint64, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	orders, total, err := s.orderRepo.GetServiceOrders(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.ServiceOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *orderEntityToDTO(&orders[i]))
	}
	return dtos, total, nil
}

func (s *ServiceOrderService) FindServiceOrder(ctx context.Context, id uint64) (*dto.ServiceOrderDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := s.orderRepo.FindServiceOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return orderEntityToDTO(entity), nil
}

// CreateServiceOrder inserts the order (and its first history event) in one
// transaction, then adjusts the equipment usage counter outside of it.
// The counter write is deliberately best-effort: an order that saved stays
// saved even if the counter does not.
func (s *ServiceOrderService) CreateServiceOrder(ctx context.Context, reqDTO dto.CreateServiceOrderDTO) (*dto.ServiceOrderDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	entity := entities.ServiceOrder{
		TenantID:      tenantID,
		CustomerID:    null.Int64FromPtr(reqDTO.CustomerID),
		EquipmentName: null.StringFromPtr(reqDTO.EquipmentName),
		Defect:        reqDTO.Defect,
		Technician:    null.StringFromPtr(reqDTO.Technician),
		Status:        entities.OrderStatusOpen,
		LaborCost:     reqDTO.LaborCost,
		PartsCost:     reqDTO.PartsCost,
	}

	var created *entities.ServiceOrder
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var txErr error
		created, txErr = s.orderRepo.CreateServiceOrderInTx(ctx, tx, entity)
		if txErr != nil {
			return txErr
		}
		return s.orderRepo.AppendEventInTx(ctx, tx, entities.OrderEvent{
			TenantID:  tenantID,
			OrderID:   created.ID,
			NewStatus: created.Status,
			ActorID:   null.Int64From(int64(userID)),
			Note:      "order created",
		})
	})
	if err != nil {
		s.logger.Error("service order create failed", zap.Error(err))
		return nil, err
	}

	s.ledger.OnOrderCreated(ctx, tenantID, created.EquipmentName)

	s.bus.Publish(ctx, events.OrderStatusChangedEvent{
		TenantID:    tenantID,
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		NewStatus:   created.Status,
		ActorID:     userID,
	})

	return orderEntityToDTO(created), nil
}

// UpdateServiceOrder reads the order's current state before writing. The
// ledger needs the pre-update equipment name to move the usage unit from
// the old name to the new one.
func (s *ServiceOrderService) UpdateServiceOrder(ctx context.Context, id uint64, reqDTO dto.UpdateServiceOrderDTO) (*dto.ServiceOrderDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var (
		updated   *entities.ServiceOrder
		oldName   null.String
		oldStatus string
	)
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		current, txErr := s.orderRepo.FindForUpdateInTx(ctx, tx, tenantID, id)
		if txErr != nil {
			return txErr
		}
		oldName = current.EquipmentName
		oldStatus = current.Status

		merged := mergeOrderPatch(*current, reqDTO)
		updated, txErr = s.orderRepo.UpdateServiceOrderInTx(ctx, tx, tenantID, id, merged)
		if txErr != nil {
			return txErr
		}

		if updated.Status != oldStatus {
			note := ""
			if reqDTO.Note != nil {
				note = *reqDTO.Note
			}
			return s.orderRepo.AppendEventInTx(ctx, tx, entities.OrderEvent{
				TenantID:  tenantID,
				OrderID:   id,
				OldStatus: null.StringFrom(oldStatus),
				NewStatus: updated.Status,
				ActorID:   null.Int64From(int64(userID)),
				Note:      note,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("service order update failed", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	s.ledger.OnOrderEdited(ctx, tenantID, oldName, updated.EquipmentName)

	if updated.Status != oldStatus {
		s.bus.Publish(ctx, events.OrderStatusChangedEvent{
			TenantID:    tenantID,
			OrderID:     id,
			OrderNumber: updated.OrderNumber,
			OldStatus:   oldStatus,
			NewStatus:   updated.Status,
			ActorID:     userID,
		})
	}

	return orderEntityToDTO(updated), nil
}

// SoftDeleteServiceOrder hides the order and releases its usage unit.
func (s *ServiceOrderService) SoftDeleteServiceOrder(ctx context.Context, id uint64) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return err
	}

	current, err := s.orderRepo.FindServiceOrder(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.SoftDeleteServiceOrder(ctx, tenantID, id); err != nil {
		return err
	}

	s.ledger.OnOrderEdited(ctx, tenantID, current.EquipmentName, null.String{})
	return nil
}

func (s *ServiceOrderService) GetOrderEvents(ctx context.Context, orderID uint64) ([]dto.OrderEventDTO, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	eventRows, err := s.orderRepo.ListEvents(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.OrderEventDTO, 0, len(eventRows))
	for _, e := range eventRows {
		item := dto.OrderEventDTO{
			ID:        e.ID,
			OrderID:   e.OrderID,
			NewStatus: e.NewStatus,
			Note:      e.Note,
			CreatedAt: formatTime(e.CreatedAt),
		}
		if e.OldStatus.Valid {
			item.OldStatus = &e.OldStatus.String
		}
		if e.ActorID.Valid {
			item.ActorID = &e.ActorID.Int64
		}
		dtos = append(dtos, item)
	}
	return dtos, nil
}

// mergeOrderPatch applies the non-nil fields of the patch onto a copy of
// the current row. A pointer to an empty equipment name clears the field.
func mergeOrderPatch(current entities.ServiceOrder, patch dto.UpdateServiceOrderDTO) entities.ServiceOrder {
	merged := current

	if patch.CustomerID != nil {
		merged.CustomerID = null.Int64From(*patch.CustomerID)
	}
	if patch.EquipmentName != nil {
		if *patch.EquipmentName == "" {
			merged.EquipmentName = null.String{}
		} else {
			merged.EquipmentName = null.StringFrom(*patch.EquipmentName)
		}
	}
	if patch.Defect != nil {
		merged.Defect = *patch.Defect
	}
	if patch.Technician != nil {
		if *patch.Technician == "" {
			merged.Technician = null.String{}
		} else {
			merged.Technician = null.StringFrom(*patch.Technician)
		}
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if patch.LaborCost != nil {
		merged.LaborCost = *patch.LaborCost
	}
	if patch.PartsCost != nil {
		merged.PartsCost = *patch.PartsCost
	}

	return merged
}
