package controllers

import (
	"testing"

	"gopkg.in/go-playground/assert.v1"
)

func TestClassifySentiment(t *testing.T) {
	assert.Equal(t, classifySentiment("The biryani was delicious, best I've had"), SentimentPositive)
	assert.Equal(t, classifySentiment("Food arrived cold and the rider was rude"), SentimentNegative)
	assert.Equal(t, classifySentiment("Order arrived on time"), SentimentNeutral)

	// Opposing keywords cancel out.
	assert.Equal(t, classifySentiment("Good food but slow delivery"), SentimentNeutral)
	assert.Equal(t, classifySentiment("GREAT SERVICE"), SentimentPositive)
	assert.Equal(t, classifySentiment(""), SentimentNeutral)
}
