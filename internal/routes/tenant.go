package routes

import (
	"os-manager/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerTenantRoutes(g *echo.Group, ctrl *controllers.TenantController) {
	g.GET("/tenants", ctrl.GetTenants)
	g.GET("/tenant/:id", ctrl.FindTenant)
	g.POST("/tenant", ctrl.CreateTenant)
	g.PUT("/tenant/:id", ctrl.UpdateTenant)
}
