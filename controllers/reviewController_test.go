package controllers

import (
	"testing"

	"food-ordering-system/models"

	"gopkg.in/go-playground/assert.v1"
)

func TestOrderContainsFood(t *testing.T) {
	paneer := "food-paneer"
	naan := "food-naan"
	order := models.Order{
		Order_items: []models.OrderItem{
			{Food_id: &paneer},
			{Food_id: &naan},
		},
	}

	assert.Equal(t, orderContainsFood(order, "food-paneer"), true)
	assert.Equal(t, orderContainsFood(order, "food-naan"), true)

	// A food the customer never ordered cannot carry their review.
	assert.Equal(t, orderContainsFood(order, "food-biryani"), false)
	assert.Equal(t, orderContainsFood(models.Order{}, "food-paneer"), false)
}
