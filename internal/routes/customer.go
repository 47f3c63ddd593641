package routes

import (
	"os-manager/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerCustomerRoutes(g *echo.Group, ctrl *controllers.CustomerController) {
	g.GET("/customers", ctrl.GetCustomers)
	g.GET("/customer/:id", ctrl.FindCustomer)
	g.POST("/customer", ctrl.CreateCustomer)
	g.PUT("/customer/:id", ctrl.UpdateCustomer)
	g.DELETE("/customer/:id", ctrl.DeleteCustomer)
}
