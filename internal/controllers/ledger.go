package controllers

import (
	"net/http"

	"os-manager/internal/services"
	"os-manager/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LedgerController struct {
	ledgerService services.UsageLedgerServiceInterface
	logger        *zap.Logger
}

func NewLedgerController(service services.UsageLedgerServiceInterface, logger *zap.Logger) *LedgerController {
	return &LedgerController{ledgerService: service, logger: logger}
}

// ReconcileCounters runs the sweep for the caller's tenant and returns the
// list of corrected counters. A concurrent sweep yields 409.
func (c *LedgerController) ReconcileCounters(ctx echo.Context) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.ledgerService.Sweep(ctx.Request().Context(), tenantID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "reconciliation complete", http.StatusOK)
}

// LastSweepReport returns the cached result of the most recent sweep.
func (c *LedgerController) LastSweepReport(ctx echo.Context) error {
	tenantID, err := utils.GetTenantIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.ledgerService.LastSweepReport(ctx.Request().Context(), tenantID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "OK", http.StatusOK)
}
