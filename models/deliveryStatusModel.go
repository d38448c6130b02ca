package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryStatus is one append-only status-history entry for an order.
type DeliveryStatus struct {
	ID         primitive.ObjectID `bson:"_id"`
	Order_id   string             `json:"order_id"`
	Status     string             `json:"status"`
	Note       string             `json:"note"`
	Latitude   *float64           `json:"latitude"`
	Longitude  *float64           `json:"longitude"`
	Updated_by string             `json:"updated_by"`
	Timestamp  time.Time          `json:"timestamp"`
}
