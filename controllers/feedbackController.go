package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"food-ordering-system/database"
	"food-ordering-system/helpers"
	"food-ordering-system/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var feedbackCollection *mongo.Collection = database.OpenCollection(database.Client, "feedback")

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

var positiveWords = []string{"great", "excellent", "amazing", "love", "fantastic", "delicious", "perfect", "awesome", "good", "best", "wonderful"}
var negativeWords = []string{"bad", "terrible", "awful", "horrible", "worst", "disgusting", "slow", "cold", "rude", "disappointed"}

// classifySentiment does keyword counting over the feedback text. Whichever
// word list scores higher wins; a tie is neutral.
func classifySentiment(text string) string {
	lowered := strings.ToLower(text)
	positive := 0
	negative := 0
	for _, word := range positiveWords {
		if strings.Contains(lowered, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lowered, word) {
			negative++
		}
	}
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// CreateFeedback records platform feedback from any signed-in user.
func CreateFeedback() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")
		name := c.GetString("name")

		var feedback models.Feedback
		if err := c.BindJSON(&feedback); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&feedback); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		feedback.ID = primitive.NewObjectID()
		feedback.Feedback_id = feedback.ID.Hex()
		feedback.User_id = &uid
		if feedback.Name == nil {
			feedback.Name = &name
		}
		feedback.Sentiment = classifySentiment(*feedback.Feedback_text)
		feedback.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

		result, err := feedbackCollection.InsertOne(ctx, feedback)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "feedback was not created"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetFeedback lists feedback newest first, optionally filtered by sentiment.
// Admin only.
func GetFeedback() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{}
		if sentiment := c.Query("sentiment"); sentiment != "" {
			filter["sentiment"] = sentiment
		}
		result, err := feedbackCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{"created_at", -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing feedback"})
			return
		}
		var allFeedback []bson.M
		if err := result.All(ctx, &allFeedback); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, allFeedback)
	}
}
