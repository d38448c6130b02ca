package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is an immutable snapshot of the food line at checkout time.
// Unit_price never follows later catalog price changes.
type OrderItem struct {
	Food_id    *string  `json:"food_id" validate:"required"`
	Food_name  *string  `json:"food_name"`
	Quantity   *int     `json:"quantity" validate:"required,min=1"`
	Unit_price *float64 `json:"unit_price" validate:"required,gt=0"`
}

type Order struct {
	ID               primitive.ObjectID `bson:"_id"`
	Order_number     string             `json:"order_number"`
	User_id          *string            `json:"user_id"`
	Order_items      []OrderItem        `json:"order_items"`
	Delivery_address *string            `json:"delivery_address" validate:"required"`
	Phone            *string            `json:"phone"`
	Total_amount     float64            `json:"total_amount"`
	Tax              float64            `json:"tax"`
	Delivery_fee     float64            `json:"delivery_fee"`
	Payment_ref      *string            `json:"payment_ref"`
	Payment_status   string             `json:"payment_status" validate:"omitempty,eq=PENDING|eq=PAID|eq=FAILED|eq=REFUNDED"`
	Status           string             `json:"status"`
	Rider_id         *string            `json:"rider_id"`
	Archived         bool               `json:"archived"`
	Created_at       time.Time          `json:"created_at"`
	Updated_at       time.Time          `json:"updated_at"`
	Order_id         string             `json:"order_id"`
}
