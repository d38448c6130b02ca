package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id"`
	Order_id   *string            `json:"order_id" validate:"required"`
	User_id    *string            `json:"user_id"`
	Food_id    *string            `json:"food_id"`
	Rating     *int               `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string            `json:"comment" validate:"required"`
	Approved   bool               `json:"approved"`
	Moderated  bool               `json:"moderated"`
	Created_at time.Time          `json:"created_at"`
	Updated_at time.Time          `json:"updated_at"`
	Review_id  string             `json:"review_id"`
}
