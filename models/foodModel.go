package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Food struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        *string            `json:"name" validate:"required,min=2,max=200"`
	Description *string            `json:"description"`
	Price       *float64           `json:"price" validate:"required,gt=0"`
	Food_image  *string            `json:"food_image"`
	Category_id *string            `json:"category_id" validate:"required"`
	Available   *bool              `json:"available"`
	Created_at  time.Time          `json:"created_at"`
	Updated_at  time.Time          `json:"updated_at"`
	Food_id     string             `json:"food_id"`
}
