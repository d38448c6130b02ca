package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"food-ordering-system/helpers"
	"food-ordering-system/lifecycle"
	"food-ordering-system/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DashboardStats summarizes recent activity for the admin dashboard: order
// and revenue totals over a time window plus user counts. Window defaults to
// 30 days, override with ?days=N.
func DashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
		if err != nil || days < 1 {
			days = 30
		}
		since := time.Now().AddDate(0, 0, -days)

		totalOrders, err := orderCollection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while computing stats"})
			return
		}
		placedOrders, err := orderCollection.CountDocuments(ctx, bson.M{"status": lifecycle.StatusPlaced})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while computing stats"})
			return
		}

		matchStage := bson.D{{"$match", bson.D{
			{"created_at", bson.D{{"$gte", since}}},
			{"payment_status", "PAID"},
		}}}
		groupStage := bson.D{{"$group", bson.D{
			{"_id", nil},
			{"total_revenue", bson.D{{"$sum", bson.D{
				{"$add", bson.A{"$total_amount", "$tax", "$delivery_fee"}},
			}}}},
		}}}
		cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, groupStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while computing revenue"})
			return
		}
		var revenueRows []bson.M
		if err := cursor.All(ctx, &revenueRows); err != nil {
			log.Fatal(err)
		}
		totalRevenue := 0.0
		if len(revenueRows) > 0 {
			if v, ok := revenueRows[0]["total_revenue"].(float64); ok {
				totalRevenue = v
			}
		}

		totalCustomers, err := userCollection.CountDocuments(ctx, bson.M{"user_role": "CUSTOMER"})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while computing stats"})
			return
		}
		totalRiders, err := userCollection.CountDocuments(ctx, bson.M{"user_role": "RIDER"})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while computing stats"})
			return
		}

		recentCursor, err := orderCollection.Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{"created_at", -1}}).SetLimit(10),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing recent orders"})
			return
		}
		var recentOrders []bson.M
		if err := recentCursor.All(ctx, &recentOrders); err != nil {
			log.Fatal(err)
		}

		c.JSON(http.StatusOK, gin.H{
			"total_orders":    totalOrders,
			"placed_orders":   placedOrders,
			"total_revenue":   toFixed(totalRevenue, 2),
			"total_customers": totalCustomers,
			"total_riders":    totalRiders,
			"recent_orders":   recentOrders,
		})
	}
}

// ActiveDeliveries lists every order currently out for delivery together
// with the rider's last known position, when one is stored.
func ActiveDeliveries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		cursor, err := orderCollection.Find(
			ctx,
			bson.M{"status": lifecycle.StatusOutForDelivery},
			options.Find().SetSort(bson.D{{"updated_at", -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing deliveries"})
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			log.Fatal(err)
		}

		deliveries := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			entry := gin.H{"order": order, "rider_location": nil}
			point, ok, err := deliveryRelay.Current(ctx, order.Order_id)
			if err != nil {
				log.Printf("loading current point for order %s: %v", order.Order_id, err)
			} else if ok {
				entry["rider_location"] = point
			}
			deliveries = append(deliveries, entry)
		}
		c.JSON(http.StatusOK, deliveries)
	}
}
