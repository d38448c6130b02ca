package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"food-ordering-system/controllers"
	middleware "food-ordering-system/middleware"
	routes "food-ordering-system/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	router := gin.New()
	router.Use(gin.Logger())

	// Enable CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:9000"},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	// Attach the delivery relay to the channel layer before any rider or
	// tracking traffic arrives.
	controllers.StartRelay(context.Background())

	// Public routes
	routes.UserRoutes(router)
	routes.FoodRoutes(router)
	routes.CategoryRoutes(router)

	// Authenticated routes
	router.Use(middleware.Authentication())
	routes.UserManagementRoutes(router)
	routes.FoodManagementRoutes(router)
	routes.CategoryManagementRoutes(router)
	routes.CartRoutes(router)
	routes.OrderRoutes(router)
	routes.ReviewRoutes(router)
	routes.FeedbackRoutes(router)
	routes.AdminRoutes(router)
	routes.TrackingRoutes(router)

	// Run the server
	router.Run(":" + port)
}
