package routes

import (
	"os-manager/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerFinanceRoutes(g *echo.Group, ctrl *controllers.FinanceController) {
	g.GET("/finance-entries", ctrl.GetFinanceEntries)
	g.GET("/finance-entry/:id", ctrl.FindFinanceEntry)
	g.POST("/finance-entry", ctrl.CreateFinanceEntry)
	g.PUT("/finance-entry/:id", ctrl.UpdateFinanceEntry)
	g.DELETE("/finance-entry/:id", ctrl.DeleteFinanceEntry)

	g.POST("/sales-snapshot", ctrl.BuildDailySnapshot)
	g.GET("/sales-snapshots", ctrl.GetSnapshots)
}
