package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func CategoryRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/categories", controller.GetCategories())
	incomingRoutes.GET("/categories/:category_id", controller.GetCategory())
}

func CategoryManagementRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/categories", controller.CreateCategory())
	incomingRoutes.PATCH("/categories/:category_id", controller.UpdateCategory())
}
