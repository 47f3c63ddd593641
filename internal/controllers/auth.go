package controllers

import (
	"net/http"

	"os-manager/internal/dto"
	"os-manager/internal/services"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(service services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: service, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var reqDTO dto.LoginDTO
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

	res, err := c.authService.Login(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "login successful", http.StatusOK)
}

// RegisterUser creates a user in the caller's tenant (admin only).
func (c *AuthController) RegisterUser(ctx echo.Context) error {
	var reqDTO dto.RegisterUserDTO
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

	res, err := c.authService.RegisterUser(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "user created", http.StatusCreated)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var reqDTO dto.RefreshDTO
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

	res, err := c.authService.Refresh(ctx.Request().Context(), reqDTO)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "token refreshed", http.StatusOK)
}
