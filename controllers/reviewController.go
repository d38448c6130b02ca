package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"food-ordering-system/database"
	"food-ordering-system/helpers"
	"food-ordering-system/lifecycle"
	"food-ordering-system/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var reviewCollection *mongo.Collection = database.OpenCollection(database.Client, "review")

// CreateReview lets a customer review their own delivered order, once.
// Reviews stay hidden until an admin approves them.
func CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "CUSTOMER"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		uid := c.GetString("uid")

		var review models.Review
		if err := c.BindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		validationErr := validate.Struct(&review)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": review.Order_id}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.User_id == nil || *order.User_id != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only review your own orders"})
			return
		}
		if order.Status != lifecycle.StatusDelivered {
			c.JSON(http.StatusConflict, gin.H{"error": "order has not been delivered yet"})
			return
		}
		if review.Food_id != nil && !orderContainsFood(order, *review.Food_id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "food item is not part of this order"})
			return
		}

		count, err := reviewCollection.CountDocuments(ctx, bson.M{"order_id": review.Order_id, "user_id": uid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while checking for an existing review"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order has already been reviewed"})
			return
		}

		review.ID = primitive.NewObjectID()
		review.Review_id = review.ID.Hex()
		review.User_id = &uid
		review.Approved = false
		review.Moderated = false
		review.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		review.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

		result, err := reviewCollection.InsertOne(ctx, review)
		if err != nil {
			msg := fmt.Sprintf("review was not created")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// orderContainsFood reports whether the order's item snapshot includes the
// food. A review tied to a food the customer never ordered is rejected.
func orderContainsFood(order models.Order, foodId string) bool {
	for _, item := range order.Order_items {
		if item.Food_id != nil && *item.Food_id == foodId {
			return true
		}
	}
	return false
}

// GetReviews lists every review including unmoderated ones. Admin only.
func GetReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		result, err := reviewCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{"created_at", -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing reviews"})
			return
		}
		var allReviews []bson.M
		if err := result.All(ctx, &allReviews); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, allReviews)
	}
}

// GetFoodReviews lists the approved reviews for one food item.
func GetFoodReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		foodId := c.Param("food_id")

		result, err := reviewCollection.Find(
			ctx,
			bson.M{"food_id": foodId, "approved": true},
			options.Find().SetSort(bson.D{{"created_at", -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing reviews"})
			return
		}
		var reviews []bson.M
		if err := result.All(ctx, &reviews); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, reviews)
	}
}

type moderateReviewRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// ModerateReview approves or rejects a pending review. Admin only.
func ModerateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		reviewId := c.Param("review_id")

		var req moderateReviewRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		var updateObj primitive.D
		updateObj = append(updateObj, bson.E{"approved", req.Approved})
		updateObj = append(updateObj, bson.E{"moderated", true})
		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", updated_at})

		result, err := reviewCollection.UpdateOne(
			ctx,
			bson.M{"review_id": reviewId},
			bson.D{{"$set", updateObj}},
		)
		if err != nil {
			msg := fmt.Sprintf("review moderation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
