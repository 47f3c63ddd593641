package routes

import (
	"os-manager/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerServiceOrderRoutes(g *echo.Group, ctrl *controllers.ServiceOrderController) {
	g.GET("/service-orders", ctrl.GetServiceOrders)
	g.GET("/service-orders/export", ctrl.ExportServiceOrders)
	g.GET("/service-order/:id", ctrl.FindServiceOrder)
	g.GET("/service-order/:id/events", ctrl.GetOrderEvents)
	g.POST("/service-order", ctrl.CreateServiceOrder)
	g.PUT("/service-order/:id", ctrl.UpdateServiceOrder)
	g.DELETE("/service-order/:id", ctrl.DeleteServiceOrder)
}
