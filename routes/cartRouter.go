package routes

import (
	controller "food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func CartRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/cart", controller.GetCart())
	incomingRoutes.POST("/cart", controller.AddCartItem())
	incomingRoutes.PATCH("/cart/:cart_item_id", controller.UpdateCartItem())
	incomingRoutes.DELETE("/cart/:cart_item_id", controller.RemoveCartItem())
}
