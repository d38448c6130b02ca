package controllers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"food-ordering-system/database"
	"food-ordering-system/helpers"
	"food-ordering-system/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var foodCollection *mongo.Collection = database.OpenCollection(database.Client, "food")
var validate = validator.New()

func GetFoods() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		// Join approved reviews through the order collection to expose an
		// average rating per food.
		lookupReviews := bson.D{{"$lookup", bson.D{
			{"from", "review"},
			{"localField", "food_id"},
			{"foreignField", "food_id"},
			{"as", "reviews"},
		}}}
		addRating := bson.D{{"$addFields", bson.D{
			{"approved_reviews", bson.D{{"$filter", bson.D{
				{"input", "$reviews"},
				{"as", "review"},
				{"cond", "$$review.approved"},
			}}}},
		}}}
		projectStage := bson.D{{"$project", bson.D{
			{"reviews", 0},
			{"approved_reviews", 0},
		}}}
		addSummary := bson.D{{"$addFields", bson.D{
			{"average_rating", bson.D{{"$avg", "$approved_reviews.rating"}}},
			{"review_count", bson.D{{"$size", "$approved_reviews"}}},
		}}}

		result, err := foodCollection.Aggregate(ctx, mongo.Pipeline{
			lookupReviews,
			addRating,
			addSummary,
			projectStage,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing food items"})
			return
		}
		var allFoods []bson.M
		if err := result.All(ctx, &allFoods); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, allFoods)
	}
}

func GetFood() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		foodId := c.Param("food_id")
		var food models.Food

		err := foodCollection.FindOne(ctx, bson.M{"food_id": foodId}).Decode(&food)
		defer cancel()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
			return
		}
		c.JSON(http.StatusOK, food)
	}
}

func GetFoodsByCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		categoryId := c.Param("category_id")

		result, err := foodCollection.Find(ctx, bson.M{"category_id": categoryId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing food items"})
			return
		}
		var foods []bson.M
		if err := result.All(ctx, &foods); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, foods)
	}
}

func CreateFood() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		var food models.Food
		var category models.Category

		if err := c.BindJSON(&food); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		validationErr := validate.Struct(&food)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			defer cancel()
			return
		}
		err := categoryCollection.FindOne(ctx, bson.M{"category_id": food.Category_id}).Decode(&category)
		defer cancel()
		if err != nil {
			msg := fmt.Sprintf("message: category was not found")
			c.JSON(http.StatusNotFound, gin.H{"error": msg})
			return
		}

		food.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		food.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		food.ID = primitive.NewObjectID()
		food.Food_id = food.ID.Hex()
		var num = toFixed(*food.Price, 2)
		food.Price = &num
		if food.Available == nil {
			available := true
			food.Available = &available
		}

		result, err := foodCollection.InsertOne(ctx, food)
		if err != nil {
			msg := fmt.Sprintf("food item was not created")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateFood() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		var food models.Food
		foodId := c.Param("food_id")

		if err := c.BindJSON(&food); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		var updateObj primitive.D
		if food.Name != nil {
			updateObj = append(updateObj, bson.E{"name", food.Name})
		}
		if food.Description != nil {
			updateObj = append(updateObj, bson.E{"description", food.Description})
		}
		if food.Price != nil {
			if *food.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
				defer cancel()
				return
			}
			var num = toFixed(*food.Price, 2)
			updateObj = append(updateObj, bson.E{"price", num})
		}
		if food.Food_image != nil {
			updateObj = append(updateObj, bson.E{"food_image", food.Food_image})
		}
		if food.Category_id != nil {
			var category models.Category
			err := categoryCollection.FindOne(ctx, bson.M{"category_id": food.Category_id}).Decode(&category)
			if err != nil {
				msg := fmt.Sprintf("message: category was not found")
				c.JSON(http.StatusNotFound, gin.H{"error": msg})
				defer cancel()
				return
			}
			updateObj = append(updateObj, bson.E{"category_id", food.Category_id})
		}
		if food.Available != nil {
			updateObj = append(updateObj, bson.E{"available", food.Available})
		}
		food.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", food.Updated_at})

		upsert := true
		filter := bson.M{"food_id": foodId}
		opts := options.UpdateOptions{
			Upsert: &upsert,
		}
		result, err := foodCollection.UpdateOne(
			ctx,
			filter,
			bson.D{{"$set", updateObj}},
			&opts,
		)
		defer cancel()
		if err != nil {
			msg := fmt.Sprintf("food item update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// DeleteFood removes a food item only if no order line references it; a
// referenced item is soft-disabled via the availability flag so existing
// order snapshots stay resolvable.
func DeleteFood() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		foodId := c.Param("food_id")

		referenced, err := orderCollection.CountDocuments(ctx, bson.M{"order_items.food_id": foodId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while checking order references"})
			return
		}
		if referenced > 0 {
			available := false
			_, err := foodCollection.UpdateOne(
				ctx,
				bson.M{"food_id": foodId},
				bson.D{{"$set", bson.D{{"available", available}, {"updated_at", time.Now()}}}},
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "food item update failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "food item is referenced by existing orders and was marked unavailable instead"})
			return
		}

		result, err := foodCollection.DeleteOne(ctx, bson.M{"food_id": foodId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "food item delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "food item deleted"})
	}
}

func round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func toFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(round(num*output)) / output
}
