package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
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

var categoryCollection *mongo.Collection = database.OpenCollection(database.Client, "category")

func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		result, err := categoryCollection.Find(ctx, bson.M{})
		defer cancel()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while listing categories"})
			return
		}
		var allCategories []bson.M
		if err = result.All(ctx, &allCategories); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"message": "categories fetched successfully",
			"data":    allCategories,
		})
	}
}

func GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		categoryId := c.Param("category_id")
		var category models.Category

		err := categoryCollection.FindOne(ctx, bson.M{"category_id": categoryId}).Decode(&category)
		defer cancel()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		if err := c.BindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		validatorErr := validate.Struct(&category)
		if validatorErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validatorErr.Error()})
			defer cancel()
			return
		}
		category.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		category.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		category.ID = primitive.NewObjectID()
		category.Category_id = category.ID.Hex()

		result, insertErr := categoryCollection.InsertOne(ctx, category)
		defer cancel()
		if insertErr != nil {
			msg := fmt.Sprintf("category was not created")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		var category models.Category
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			defer cancel()
			return
		}
		if err := c.BindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			defer cancel()
			return
		}

		categoryId := c.Param("category_id")
		filter := bson.M{"category_id": categoryId}
		var updateObj primitive.D

		if category.Name != nil {
			updateObj = append(updateObj, bson.E{"name", category.Name})
		}
		if category.Description != nil {
			updateObj = append(updateObj, bson.E{"description", category.Description})
		}
		category.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", category.Updated_at})
		upsert := true

		opt := options.UpdateOptions{
			Upsert: &upsert,
		}
		result, err := categoryCollection.UpdateOne(
			ctx,
			filter,
			bson.D{
				{"$set", updateObj},
			},
			&opt,
		)
		defer cancel()
		if err != nil {
			msg := "category update failed"
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
