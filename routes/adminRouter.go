package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/admin/stats", controller.DashboardStats())
	incomingRoutes.GET("/admin/deliveries", controller.ActiveDeliveries())
	incomingRoutes.GET("/admin/feedback", controller.GetFeedback())
}

func FeedbackRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/feedback", controller.CreateFeedback())
}
