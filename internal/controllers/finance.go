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

type FinanceController struct {
	financeService services.FinanceServiceInterface
	logger         *zap.Logger
}

func NewFinanceController(service services.FinanceServiceInterface, logger *zap.Logger) *FinanceController {
	return &FinanceController{financeService: service, logger: logger}
}

func (c *FinanceController) GetFinanceEntries(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.financeService.GetFinanceEntries(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK, total)
}

func (c *FinanceController) FindFinanceEntry(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid finance entry id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	res, err := c.financeService.FindFinanceEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

func (c *FinanceController) CreateFinanceEntry(ctx echo.Context) error {
	var reqDTO dto.CreateFinanceEntryDTO
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

	res, err := c.financeService.CreateFinanceEntry(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "finance entry created", http.StatusCreated)
}

func (c *FinanceController) UpdateFinanceEntry(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid finance entry id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	var reqDTO dto.UpdateFinanceEntryDTO
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

	res, err := c.financeService.UpdateFinanceEntry(ctx.Request().Context(), id, reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "finance entry updated", http.StatusOK)
}

func (c *FinanceController) DeleteFinanceEntry(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid finance entry id", err, map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	if err := c.financeService.DeleteFinanceEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "finance entry deleted", http.StatusOK)
}

// BuildDailySnapshot recomputes the aggregate for one day (query param
// "date", default today).
func (c *FinanceController) BuildDailySnapshot(ctx echo.Context) error {
	res, err := c.financeService.BuildDailySnapshot(ctx.Request().Context(), ctx.QueryParam("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "snapshot built", http.StatusOK)
}

func (c *FinanceController) GetSnapshots(ctx echo.Context) error {
	res, err := c.financeService.GetSnapshots(ctx.Request().Context(), ctx.QueryParam("from"), ctx.QueryParam("to"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}
