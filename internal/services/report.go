package services

import (
	"bytes"
	"context"
	"fmt"

	"os-manager/internal/repositories"
	"os-manager/pkg/types"
	"os-manager/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	ExportServiceOrdersXLSX(ctx context.Context, filter types.Filter) (*bytes.Buffer, error)
}

type ReportService struct {
	orderRepository repositories.ServiceOrderRepositoryInterface
	logger          *zap.Logger
}

func NewReportService(orderRepo repositories.ServiceOrderRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{
		orderRepository: orderRepo,
		logger:          logger,
	}
}

// ExportServiceOrdersXLSX writes the tenant's orders (honoring the list
// filter, without pagination) into a spreadsheet.
func (s *ReportService) ExportServiceOrdersXLSX(ctx context.Context, filter types.Filter) (*bytes.Buffer, error) {
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	filter.Limit = 0
	filter.Offset = 0
	filter.WithPagination = false
	orders, _, err := s.orderRepository.GetServiceOrders(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("failed to close report workbook", zap.Error(closeErr))
		}
	}()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("failed to drop default sheet", zap.Error(err))
	}

	headers := []string{"Order #", "Status", "Equipment", "Defect", "Technician", "Labor", "Parts", "Total", "Created At"}
	for col, title := range headers {
		cell, cellErr := excelize.CoordinatesToCellName(col+1, 1)
		if cellErr != nil {
			return nil, cellErr
		}
		if setErr := f.SetCellValue(sheet, cell, title); setErr != nil {
			return nil, setErr
		}
	}

	for rowIdx, order := range orders {
		equipment := ""
		if order.EquipmentName.Valid {
			equipment = order.EquipmentName.String
		}
		technician := ""
		if order.Technician.Valid {
			technician = order.Technician.String
		}
		createdAt := ""
		if order.CreatedAt != nil {
			createdAt = order.CreatedAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			order.OrderNumber,
			order.Status,
			equipment,
			order.Defect,
			technician,
			order.LaborCost,
			order.PartsCost,
			order.Total,
			createdAt,
		}
		for col, value := range values {
			cell, cellErr := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if cellErr != nil {
				return nil, cellErr
			}
			if setErr := f.SetCellValue(sheet, cell, value); setErr != nil {
				return nil, setErr
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write report workbook: %w", err)
	}
	return buf, nil
}
