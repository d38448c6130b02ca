package models

import "time"

// RiderLocation is ephemeral: only the latest point per active order matters.
type RiderLocation struct {
	Rider_id  string    `json:"rider_id"`
	Order_id  string    `json:"order_id" validate:"required"`
	Latitude  float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64   `json:"longitude" validate:"min=-180,max=180"`
	Timestamp time.Time `json:"timestamp"`
}
