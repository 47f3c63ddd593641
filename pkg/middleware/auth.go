package middleware

import (
	"context"
	"net/http"
	"strings"

	"os-manager/pkg/contextkeys"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/service"
	"os-manager/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth validates the bearer token and stores user, tenant and role in the
// request context. Every tenant-scoped query downstream reads the tenant
// from context, never from the request body.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: empty Authorization header")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrEmptyAuthHeader.Error(), apperrors.ErrEmptyAuthHeader, nil), m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrInvalidAuthHeader.Error(), apperrors.ErrInvalidAuthHeader, nil), m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, err.Error(), err, nil), m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: refresh token used for access")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrTokenIsNotAccess.Error(), apperrors.ErrTokenIsNotAccess, nil), m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.TenantIDKey, claims.TenantID)
		ctx = context.WithValue(ctx, contextkeys.UserRoleKey, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
