package utils

import (
	"context"

	"os-manager/pkg/contextkeys"
	apperrors "os-manager/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || id == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return id, nil
}

func GetTenantIDFromCtx(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(contextkeys.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return "", apperrors.ErrTenantIDNotFoundInContext
	}
	return tenantID, nil
}

func GetUserRoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(contextkeys.UserRoleKey).(string)
	return role
}
