package service

import (
	"testing"
	"time"

	apperrors "os-manager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	access, refresh, err := svc.GenerateTokens(42, "tenant-1", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, time.Hour)

	access, _, err := svc.GenerateTokens(1, "tenant-1", "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Minute, time.Hour)
	verifier := NewJWTService("secret-b", time.Minute, time.Hour)

	access, _, err := issuer.GenerateTokens(1, "tenant-1", "USER")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
