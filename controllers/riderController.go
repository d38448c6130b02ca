package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"food-ordering-system/helpers"
	"food-ordering-system/lifecycle"
	"food-ordering-system/models"
	"food-ordering-system/relay"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// publishRiderLocation validates the order is actually in transit and hands
// the point to the relay. Updates for any other status are dropped silently;
// rider clients may keep sending for a moment after a status change.
func publishRiderLocation(ctx context.Context, riderID string, loc models.RiderLocation) error {
	if !deliveryRelay.IsActive(loc.Order_id) {
		// The active set is in-memory; re-sync from the order document so
		// updates survive a restart or land on another instance.
		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": loc.Order_id}).Decode(&order)
		if err != nil || order.Status != lifecycle.StatusOutForDelivery {
			return nil
		}
		if order.Rider_id == nil || *order.Rider_id != riderID {
			return nil
		}
		deliveryRelay.Activate(ctx, loc.Order_id)
	}

	if loc.Timestamp.IsZero() {
		loc.Timestamp = time.Now()
	}
	return deliveryRelay.PublishLocation(ctx, relay.Point{
		Order_id:  loc.Order_id,
		Rider_id:  riderID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timestamp: loc.Timestamp,
	})
}

// UpdateRiderLocation ingests one GPS point over HTTP.
func UpdateRiderLocation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "RIDER"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		var loc models.RiderLocation
		if err := c.BindJSON(&loc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&loc); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		if err := publishRiderLocation(ctx, c.GetString("uid"), loc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "location update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "location received"})
	}
}

// RiderLocationSocket ingests a stream of GPS points over a websocket, one
// JSON location per message.
func RiderLocationSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := helpers.CheckUserRole(c, "RIDER"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		uid := c.GetString("uid")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var loc models.RiderLocation
			if err := json.Unmarshal(message, &loc); err != nil {
				continue
			}
			if validationErr := validate.Struct(&loc); validationErr != nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := publishRiderLocation(ctx, uid, loc); err == nil {
				conn.WriteJSON(gin.H{"event": "location_received", "timestamp": loc.Timestamp})
			}
			cancel()
		}
	}
}
