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

type TenantController struct {
	tenantService services.TenantServiceInterface
	logger        *zap.Logger
}

func NewTenantController(service services.TenantServiceInterface, logger *zap.Logger) *TenantController {
	return &TenantController{tenantService: service, logger: logger}
}

func (c *TenantController) GetTenants(ctx echo.Context) error {
	limit := uint64(utils.DefaultLimit)
	offset := uint64(0)
	if raw := ctx.QueryParam("limit"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := ctx.QueryParam("offset"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			offset = v
		}
	}

	res, total, err := c.tenantService.GetTenants(ctx.Request().Context(), limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK, total)
}

func (c *TenantController) FindTenant(ctx echo.Context) error {
	res, err := c.tenantService.FindTenant(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

func (c *TenantController) CreateTenant(ctx echo.Context) error {
	var reqDTO dto.CreateTenantDTO
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

	res, err := c.tenantService.CreateTenant(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "tenant created", http.StatusCreated)
}

func (c *TenantController) UpdateTenant(ctx echo.Context) error {
	var reqDTO dto.UpdateTenantDTO
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

	res, err := c.tenantService.UpdateTenant(ctx.Request().Context(), ctx.Param("id"), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "tenant updated", http.StatusOK)
}
