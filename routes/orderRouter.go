package routes

import (
	"food-ordering-system/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/orders/checkout", controllers.Checkout())
	incomingRoutes.GET("/orders", controllers.GetOrders())
	incomingRoutes.GET("/orders/:order_id", controllers.GetOrder())
	incomingRoutes.GET("/orders/:order_id/history", controllers.GetOrderHistory())
	incomingRoutes.GET("/orders/:order_id/receipt", controllers.GetOrderReceipt())
	incomingRoutes.PATCH("/orders/:order_id/status", controllers.UpdateOrderStatus())
	incomingRoutes.PATCH("/orders/:order_id/rider", controllers.AssignRider())
	incomingRoutes.PATCH("/orders/:order_id/archive", controllers.ArchiveOrder())
}
