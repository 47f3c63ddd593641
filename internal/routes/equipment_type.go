package routes

import (
	"os-manager/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerEquipmentTypeRoutes(g *echo.Group, ctrl *controllers.EquipmentTypeController) {
	g.GET("/equipment-types", ctrl.GetEquipmentTypes)
	g.GET("/equipment-type/:id", ctrl.FindEquipmentType)
	g.POST("/equipment-type", ctrl.CreateEquipmentType)
	g.PUT("/equipment-type/:id", ctrl.UpdateEquipmentType)
	g.DELETE("/equipment-type/:id", ctrl.DeleteEquipmentType)
}
