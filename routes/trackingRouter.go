package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func TrackingRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/ws/track/:order_id", controller.TrackOrder())
	incomingRoutes.GET("/ws/rider", controller.RiderLocationSocket())
	incomingRoutes.POST("/riders/location", controller.UpdateRiderLocation())
}
