package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"food-ordering-system/database"
	"food-ordering-system/models"
	"food-ordering-system/relay"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

var deliveryRelay = relay.New(
	relay.NewRedisBroker(database.RedisClient),
	relay.NewRedisStore(database.RedisClient),
)

// StartRelay attaches the relay to the channel layer. Called once from main.
func StartRelay(ctx context.Context) {
	deliveryRelay.Start(ctx)
}

const subscriberWriteTimeout = 2 * time.Second

// wsSubscriber adapts one websocket connection to a relay subscriber. Writes
// are bounded by a short deadline so a stalled session cannot block fan-out.
type wsSubscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSubscriber) Send(p relay.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(subscriberWriteTimeout))
	return s.conn.WriteJSON(gin.H{
		"event":     "rider_location",
		"order_id":  p.Order_id,
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
		"timestamp": p.Timestamp,
	})
}

// TrackOrder upgrades the connection and attaches it as a subscriber to the
// order's location stream until the session disconnects or the order leaves
// the in-transit phase.
func TrackOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		orderId := c.Param("order_id")

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		cancel()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canViewOrder(c, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to track this order"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(gin.H{
			"event":    "connected",
			"order_id": orderId,
			"status":   order.Status,
		})

		sub := &wsSubscriber{conn: conn}
		deliveryRelay.Subscribe(context.Background(), orderId, sub)
		defer deliveryRelay.Unsubscribe(orderId, sub)

		// Keep reading until the client goes away; inbound messages are
		// ignored apart from closing the connection.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
