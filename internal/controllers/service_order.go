package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"os-manager/internal/dto"
	"os-manager/internal/services"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ServiceOrderController struct {
	orderService  services.ServiceOrderServiceInterface
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewServiceOrderController(
	orderService services.ServiceOrderServiceInterface,
	reportService services.ReportServiceInterface,
	logger *zap.Logger,
) *ServiceOrderController {
	return &ServiceOrderController{
		orderService:  orderService,
		reportService: reportService,
		logger:        logger,
	}
}

func parseOrderID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid order id", err, map[string]interface{}{"param": ctx.Param("id")})
	}
	return id, nil
}

func (c *ServiceOrderController) GetServiceOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.orderService.GetServiceOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK, total)
}

func (c *ServiceOrderController) FindServiceOrder(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.FindServiceOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

func (c *ServiceOrderController) CreateServiceOrder(ctx echo.Context) error {
	var reqDTO dto.CreateServiceOrderDTO
	if err := ctx.Bind(&reqDTO); err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&reqDTO); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.CreateServiceOrder(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "order created", http.StatusCreated)
}

func (c *ServiceOrderController) UpdateServiceOrder(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var reqDTO dto.UpdateServiceOrderDTO
	if err := ctx.Bind(&reqDTO); err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&reqDTO); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateServiceOrder(ctx.Request().Context(), id, reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "order updated", http.StatusOK)
}

func (c *ServiceOrderController) DeleteServiceOrder(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.orderService.SoftDeleteServiceOrder(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "order deleted", http.StatusOK)
}

func (c *ServiceOrderController) GetOrderEvents(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.GetOrderEvents(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

// ExportServiceOrders streams the filtered order list as an XLSX workbook.
func (c *ServiceOrderController) ExportServiceOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	buf, err := c.reportService.ExportServiceOrdersXLSX(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
