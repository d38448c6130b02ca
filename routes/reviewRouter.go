package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func ReviewRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/reviews", controller.CreateReview())
	incomingRoutes.GET("/reviews", controller.GetReviews())
	incomingRoutes.PATCH("/reviews/:review_id", controller.ModerateReview())
}
