package main

import (
	"context"
	"net/http"

	"os-manager/internal/routes"
	"os-manager/internal/services"
	"os-manager/pkg/config"
	"os-manager/pkg/customvalidator"
	"os-manager/pkg/database/postgresql"
	apperrors "os-manager/pkg/errors"
	applogger "os-manager/pkg/logger"
	appmiddleware "os-manager/pkg/middleware"
	"os-manager/pkg/service"
	"os-manager/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORS())
	e.Use(appmiddleware.RequestLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("failed to register custom validations", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	ledgerService := routes.InitRouter(e, dbConn, redisClient, jwtSvc, logger, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler := services.NewSweepScheduler(ledgerService, cfg.Ledger.SweepInterval, logger)
	scheduler.Start(ctx)

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
