package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-manager/internal/controllers"
	"os-manager/internal/listeners"
	"os-manager/internal/repositories"
	"os-manager/internal/services"
	"os-manager/pkg/config"
	"os-manager/pkg/eventbus"
	"os-manager/pkg/middleware"
	"os-manager/pkg/service"
)

// InitRouter wires repositories, services and controllers and registers all
// HTTP routes. It returns the ledger service so main can hand it to the
// sweep scheduler.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) services.UsageLedgerServiceInterface {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// repositories
	userRepo := repositories.NewUserRepository(dbConn)
	tenantRepo := repositories.NewTenantRepository(dbConn)
	customerRepo := repositories.NewCustomerRepository(dbConn)
	etRepo := repositories.NewEquipmentTypeRepository(dbConn)
	orderRepo := repositories.NewServiceOrderRepository(dbConn)
	financeRepo := repositories.NewFinanceRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// event bus and listeners
	bus := eventbus.New(logger)
	webhook := listeners.NewWebhookListener(cfg.Webhook.URL, cfg.Webhook.Timeout, logger)
	webhook.Register(bus)

	// services
	ledgerService := services.NewUsageLedgerService(etRepo, orderRepo, cacheRepo, cfg.Ledger.SweepLockTTL, logger)
	orderService := services.NewServiceOrderService(dbConn, orderRepo, ledgerService, bus, logger)
	etService := services.NewEquipmentTypeService(etRepo, ledgerService, logger)
	customerService := services.NewCustomerService(customerRepo, logger)
	financeService := services.NewFinanceService(financeRepo, logger)
	tenantService := services.NewTenantService(tenantRepo, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	reportService := services.NewReportService(orderRepo, logger)

	// controllers
	authCtrl := controllers.NewAuthController(authService, logger)
	orderCtrl := controllers.NewServiceOrderController(orderService, reportService, logger)
	etCtrl := controllers.NewEquipmentTypeController(etService, logger)
	customerCtrl := controllers.NewCustomerController(customerService, logger)
	financeCtrl := controllers.NewFinanceController(financeService, logger)
	tenantCtrl := controllers.NewTenantController(tenantService, logger)
	ledgerCtrl := controllers.NewLedgerController(ledgerService, logger)

	registerAuthRoutes(api, authCtrl)

	secured := api.Group("", authMW.Auth)
	registerServiceOrderRoutes(secured, orderCtrl)
	registerEquipmentTypeRoutes(secured, etCtrl)
	registerCustomerRoutes(secured, customerCtrl)
	registerFinanceRoutes(secured, financeCtrl)
	registerTenantRoutes(secured, tenantCtrl)
	registerLedgerRoutes(secured, ledgerCtrl)
	secured.POST("/users", authCtrl.RegisterUser)

	return ledgerService
}

func registerAuthRoutes(g *echo.Group, ctrl *controllers.AuthController) {
	g.POST("/auth/login", ctrl.Login)
	g.POST("/auth/refresh", ctrl.Refresh)
}

func registerLedgerRoutes(g *echo.Group, ctrl *controllers.LedgerController) {
	g.POST("/reconcile-counters", ctrl.ReconcileCounters)
	g.GET("/reconcile-counters/report", ctrl.LastSweepReport)
}
