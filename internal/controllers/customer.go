package controllers

import (
	"net/http"
	"strconv"

	"os-manager/internal/dto"
	"os-manager/internal/services"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CustomerController struct {
	customerService services.CustomerServiceInterface
	logger          *zap.Logger
}

func NewCustomerController(service services.CustomerServiceInterface, logger *zap.Logger) *CustomerController {
	return &CustomerController{customerService: service, logger: logger}
}

func (c *CustomerController) GetCustomers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.customerService.GetCustomers(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK, total)
}

func (c *CustomerController) FindCustomer(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid customer id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	res, err := c.customerService.FindCustomer(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

func (c *CustomerController) CreateCustomer(ctx echo.Context) error {
	var reqDTO dto.CreateCustomerDTO
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

	res, err := c.customerService.CreateCustomer(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "customer created", http.StatusCreated)
}

func (c *CustomerController) UpdateCustomer(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid customer id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	var reqDTO dto.UpdateCustomerDTO
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

	res, err := c.customerService.UpdateCustomer(ctx.Request().Context(), id, reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "customer updated", http.StatusOK)
}

func (c *CustomerController) DeleteCustomer(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid customer id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	if err := c.customerService.DeleteCustomer(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "customer deleted", http.StatusOK)
}
