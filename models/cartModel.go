package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one (user, food) line; the pair is unique per customer and the
// whole set is wiped at checkout.
type CartItem struct {
	ID           primitive.ObjectID `bson:"_id"`
	User_id      *string            `json:"user_id"`
	Food_id      *string            `json:"food_id" validate:"required"`
	Quantity     *int               `json:"quantity" validate:"required,min=1"`
	Created_at   time.Time          `json:"created_at"`
	Updated_at   time.Time          `json:"updated_at"`
	Cart_item_id string             `json:"cart_item_id"`
}
