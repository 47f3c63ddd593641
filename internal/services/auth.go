package services

import (
	"context"
	"errors"
	"net/http"

	"os-manager/internal/dto"
	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/service"
	"os-manager/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, reqDTO dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, reqDTO dto.RefreshDTO) (*dto.TokenPairDTO, error)
	RegisterUser(ctx context.Context, reqDTO dto.RegisterUserDTO) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepository repositories.UserRepositoryInterface
	jwtService     service.JWTService
	logger         *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepository: userRepo,
		jwtService:     jwtService,
		logger:         logger,
	}
}

// Login validates credentials and issues an access/refresh token pair.
// Unknown email and wrong password produce the same error on purpose.
func (s *AuthService) Login(ctx context.Context, reqDTO dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, reqDTO.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid credentials", apperrors.ErrInvalidCredentials, nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqDTO.Password)); err != nil {
		return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid credentials", apperrors.ErrInvalidCredentials, nil)
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.TenantID, user.Role)
	if err != nil {
		s.logger.Error("token generation failed", zap.Uint64("userId", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RegisterUser creates a user inside the caller's tenant. Admin only.
func (s *AuthService) RegisterUser(ctx context.Context, reqDTO dto.RegisterUserDTO) (*dto.UserDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	tenantID, err := utils.GetTenantIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqDTO.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepository.CreateUser(ctx, entities.User{
		TenantID:     tenantID,
		Name:         reqDTO.Name,
		Email:        reqDTO.Email,
		PasswordHash: string(hash),
		Role:         reqDTO.Role,
	})
	if err != nil {
		return nil, err
	}

	return &dto.UserDTO{
		ID:    created.ID,
		Name:  created.Name,
		Email: created.Email,
		Role:  created.Role,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so revoked accounts and role changes take effect immediately.
func (s *AuthService) Refresh(ctx context.Context, reqDTO dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(reqDTO.RefreshToken)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid refresh token", err, nil)
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid refresh token", apperrors.ErrTokenIsNotRefresh, nil)
	}

	user, err := s.userRepository.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid refresh token", apperrors.ErrUnauthorized, nil)
		}
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.TenantID, user.Role)
	if err != nil {
		s.logger.Error("token generation failed", zap.Uint64("userId", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
