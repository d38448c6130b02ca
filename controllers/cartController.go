package controllers

import (
	"context"
	"log"
	"time"

	"food-ordering-system/database"

	"go.mongodb.org/mongo-driver/mongo"

	"net/http"

	"food-ordering-system/models"

	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var cartCollection *mongo.Collection = database.OpenCollection(database.Client, "cart")

// GetCart lists the caller's cart lines with the current food details joined
// in, plus a running subtotal.
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")

		matchStage := bson.D{{"$match", bson.D{{"user_id", uid}}}}
		lookupStage := bson.D{{"$lookup", bson.D{
			{"from", "food"},
			{"localField", "food_id"},
			{"foreignField", "food_id"},
			{"as", "food"},
		}}}
		unwindStage := bson.D{{"$unwind", bson.D{
			{"path", "$food"},
			{"preserveNullAndEmptyArrays", true},
		}}}
		projectStage := bson.D{{"$project", bson.D{
			{"cart_item_id", 1},
			{"food_id", 1},
			{"quantity", 1},
			{"food_name", "$food.name"},
			{"unit_price", "$food.price"},
			{"available", "$food.available"},
			{"subtotal", bson.D{{"$multiply", bson.A{"$food.price", "$quantity"}}}},
		}}}

		result, err := cartCollection.Aggregate(ctx, mongo.Pipeline{matchStage, lookupStage, unwindStage, projectStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing cart items"})
			return
		}
		var cartItems []bson.M
		if err := result.All(ctx, &cartItems); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, cartItems)
	}
}

// AddCartItem upserts a (user, food) line; adding the same food again
// replaces the quantity.
func AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")

		var cartItem models.CartItem
		if err := c.BindJSON(&cartItem); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		validationErr := validate.Struct(&cartItem)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		var food models.Food
		err := foodCollection.FindOne(ctx, bson.M{"food_id": cartItem.Food_id}).Decode(&food)
		if err != nil {
			msg := fmt.Sprintf("message: food item was not found")
			c.JSON(http.StatusNotFound, gin.H{"error": msg})
			return
		}
		if food.Available != nil && !*food.Available {
			c.JSON(http.StatusConflict, gin.H{"error": "food item is not available"})
			return
		}

		cartItem.ID = primitive.NewObjectID()
		cartItem.Cart_item_id = cartItem.ID.Hex()
		cartItem.User_id = &uid
		cartItem.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		cartItem.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

		filter := bson.M{"user_id": uid, "food_id": cartItem.Food_id}
		var updateObj primitive.D
		updateObj = append(updateObj, bson.E{"quantity", cartItem.Quantity})
		updateObj = append(updateObj, bson.E{"updated_at", cartItem.Updated_at})
		upsert := true
		opt := options.UpdateOptions{
			Upsert: &upsert,
		}
		result, err := cartCollection.UpdateOne(
			ctx,
			filter,
			bson.D{
				{"$set", updateObj},
				{"$setOnInsert", bson.D{
					{"_id", cartItem.ID},
					{"cart_item_id", cartItem.Cart_item_id},
					{"user_id", uid},
					{"food_id", cartItem.Food_id},
					{"created_at", cartItem.Created_at},
				}},
			},
			&opt,
		)
		if err != nil {
			msg := fmt.Sprintf("message: cart item was not added")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")
		cartItemId := c.Param("cart_item_id")

		var cartItem models.CartItem
		if err := c.BindJSON(&cartItem); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if cartItem.Quantity == nil || *cartItem.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}

		var updateObj primitive.D
		updateObj = append(updateObj, bson.E{"quantity", cartItem.Quantity})
		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", updated_at})

		filter := bson.M{"cart_item_id": cartItemId, "user_id": uid}
		result, err := cartCollection.UpdateOne(
			ctx,
			filter,
			bson.D{{"$set", updateObj}},
		)
		if err != nil {
			msg := fmt.Sprintf("message: cart item update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")
		cartItemId := c.Param("cart_item_id")

		result, err := cartCollection.DeleteOne(ctx, bson.M{"cart_item_id": cartItemId, "user_id": uid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while removing the cart item"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
	}
}
