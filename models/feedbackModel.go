package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is free-form platform feedback, distinct from per-order reviews.
// Sentiment is derived from the text at creation time.
type Feedback struct {
	ID            primitive.ObjectID `bson:"_id"`
	User_id       *string            `json:"user_id"`
	Order_id      *string            `json:"order_id"`
	Name          *string            `json:"name"`
	Rating        *int               `json:"rating" validate:"required,min=1,max=5"`
	Feedback_text *string            `json:"feedback_text" validate:"required,min=1"`
	Sentiment     string             `json:"sentiment"`
	Created_at    time.Time          `json:"created_at"`
	Feedback_id   string             `json:"feedback_id"`
}
