package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func FoodRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/foods", controller.GetFoods())
	incomingRoutes.GET("/foods/:food_id", controller.GetFood())
	incomingRoutes.GET("/foods/:food_id/reviews", controller.GetFoodReviews())
	incomingRoutes.GET("/foodsbycategory/:category_id", controller.GetFoodsByCategory())
}

func FoodManagementRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/foods", controller.CreateFood())
	incomingRoutes.PATCH("/foods/:food_id", controller.UpdateFood())
	incomingRoutes.DELETE("/foods/:food_id", controller.DeleteFood())
}
