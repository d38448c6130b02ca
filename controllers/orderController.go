package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"food-ordering-system/database"
	"food-ordering-system/helpers"
	"food-ordering-system/lifecycle"
	"food-ordering-system/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")
var deliveryStatusCollection *mongo.Collection = database.OpenCollection(database.Client, "delivery_status")

const (
	taxRate     = 0.05
	deliveryFee = 50.0
)

// mongoOrderStore adapts the order collections to the state machine's store.
type mongoOrderStore struct{}

func (mongoOrderStore) GetOrder(ctx context.Context, orderID string) (lifecycle.OrderState, error) {
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return lifecycle.OrderState{}, lifecycle.ErrUnknownOrder
	}
	if err != nil {
		return lifecycle.OrderState{}, err
	}
	state := lifecycle.OrderState{Order_id: order.Order_id, Status: order.Status}
	if order.User_id != nil {
		state.User_id = *order.User_id
	}
	return state, nil
}

func (mongoOrderStore) UpdateStatus(ctx context.Context, orderID string, status string) error {
	filter := bson.M{"order_id": orderID}
	update := bson.D{
		{"$set", bson.D{
			{"status", status},
			{"updated_at", time.Now()},
		}},
	}
	_, err := orderCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(false))
	if err != nil {
		fmt.Printf("failed to update order status: %v\n", err)
		return err
	}
	return nil
}

func (mongoOrderStore) AppendHistory(ctx context.Context, entry lifecycle.HistoryEntry) error {
	status := models.DeliveryStatus{
		ID:         primitive.NewObjectID(),
		Order_id:   entry.Order_id,
		Status:     entry.Status,
		Updated_by: entry.Updated_by,
		Timestamp:  entry.Timestamp,
	}
	_, err := deliveryStatusCollection.InsertOne(ctx, status)
	return err
}

var orderTracker = lifecycle.NewTracker(mongoOrderStore{}, deliveryRelay)

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

type checkoutRequest struct {
	Delivery_address *string `json:"delivery_address" validate:"required"`
	Phone            *string `json:"phone"`
	Payment_ref      *string `json:"payment_ref"`
}

// Checkout snapshots the caller's cart into a PLACED order. Line unit prices
// are frozen at the current catalog price and never follow later changes.
// The cart is wiped afterwards.
func Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")

		var req checkoutRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		cursor, err := cartCollection.Find(ctx, bson.M{"user_id": uid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occured while reading the cart"})
			return
		}
		var cartItems []models.CartItem
		if err := cursor.All(ctx, &cartItems); err != nil {
			log.Fatal(err)
		}
		if len(cartItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		var orderItems []models.OrderItem
		var totalAmount float64
		for _, cartItem := range cartItems {
			var food models.Food
			err := foodCollection.FindOne(ctx, bson.M{"food_id": cartItem.Food_id}).Decode(&food)
			if err != nil {
				msg := fmt.Sprintf("message: food item was not found")
				c.JSON(http.StatusConflict, gin.H{"error": msg})
				return
			}
			if food.Available != nil && !*food.Available {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("%s is no longer available", *food.Name)})
				return
			}
			unitPrice := toFixed(*food.Price, 2)
			orderItems = append(orderItems, models.OrderItem{
				Food_id:    cartItem.Food_id,
				Food_name:  food.Name,
				Quantity:   cartItem.Quantity,
				Unit_price: &unitPrice,
			})
			totalAmount += unitPrice * float64(*cartItem.Quantity)
		}

		var order models.Order
		order.ID = primitive.NewObjectID()
		order.Order_id = order.ID.Hex()
		order.Order_number = newOrderNumber()
		order.User_id = &uid
		order.Order_items = orderItems
		order.Delivery_address = req.Delivery_address
		order.Phone = req.Phone
		order.Total_amount = toFixed(totalAmount, 2)
		order.Tax = toFixed(totalAmount*taxRate, 2)
		order.Delivery_fee = deliveryFee
		order.Payment_ref = req.Payment_ref
		order.Payment_status = "PENDING"
		order.Status = lifecycle.StatusPlaced
		order.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		order.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

		_, err = orderCollection.InsertOne(ctx, order)
		if err != nil {
			msg := fmt.Sprintf("message: order was not created")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}

		mongoOrderStore{}.AppendHistory(ctx, lifecycle.HistoryEntry{
			Order_id:   order.Order_id,
			Status:     lifecycle.StatusPlaced,
			Updated_by: uid,
			Timestamp:  time.Now(),
		})

		if _, err := cartCollection.DeleteMany(ctx, bson.M{"user_id": uid}); err != nil {
			log.Printf("failed to clear cart for user %s: %v", uid, err)
		}

		c.JSON(http.StatusOK, order)
	}
}

// GetOrders lists orders visible to the caller: admins and restaurant staff
// see everything, riders their assigned deliveries, customers their own.
func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		uid := c.GetString("uid")
		role := c.GetString("user_role")

		filter := bson.M{"archived": bson.M{"$ne": true}}
		switch role {
		case "ADMIN", "RESTAURANT":
			if c.Query("archived") == "true" {
				delete(filter, "archived")
			}
		case "RIDER":
			filter["rider_id"] = uid
		default:
			filter["user_id"] = uid
		}

		result, err := orderCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{"created_at", -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		var allOrders []bson.M
		if err := result.All(ctx, &allOrders); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, allOrders)
	}
}

func canViewOrder(c *gin.Context, order models.Order) bool {
	uid := c.GetString("uid")
	role := c.GetString("user_role")
	if role == "ADMIN" || role == "RESTAURANT" {
		return true
	}
	if role == "RIDER" && order.Rider_id != nil && *order.Rider_id == uid {
		return true
	}
	return order.User_id != nil && *order.User_id == uid
}

func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		orderId := c.Param("order_id")
		var order models.Order

		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		defer cancel()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canViewOrder(c, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to access this order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetOrderHistory returns the append-only status history, oldest first.
func GetOrderHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		orderId := c.Param("order_id")

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canViewOrder(c, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to access this order"})
			return
		}

		cursor, err := deliveryStatusCollection.Find(
			ctx,
			bson.M{"order_id": orderId},
			options.Find().SetSort(bson.D{{"timestamp", 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing the status history"})
			return
		}
		var history []bson.M
		if err := cursor.All(ctx, &history); err != nil {
			log.Fatal(err)
		}
		c.JSON(http.StatusOK, history)
	}
}

// GetOrderReceipt computes the payable breakdown for an order.
func GetOrderReceipt() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		orderId := c.Param("order_id")

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canViewOrder(c, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to access this order"})
			return
		}

		grandTotal := toFixed(order.Total_amount+order.Tax+order.Delivery_fee, 2)
		paymentDue := grandTotal
		if order.Payment_status == "PAID" {
			paymentDue = 0
		}
		c.JSON(http.StatusOK, gin.H{
			"order_number":   order.Order_number,
			"order_items":    order.Order_items,
			"subtotal":       order.Total_amount,
			"tax":            order.Tax,
			"delivery_fee":   order.Delivery_fee,
			"grand_total":    grandTotal,
			"payment_status": order.Payment_status,
			"payment_ref":    order.Payment_ref,
			"payment_due":    paymentDue,
		})
	}
}

type statusUpdateRequest struct {
	Status *string `json:"status" validate:"required,eq=PLACED|eq=CONFIRMED|eq=PREPARING|eq=OUT_FOR_DELIVERY|eq=DELIVERED|eq=CANCELLED"`
}

// UpdateOrderStatus runs one state-machine transition for the order on
// behalf of the authenticated actor.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		orderId := c.Param("order_id")

		var req statusUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		actor := lifecycle.Actor{
			User_id: c.GetString("uid"),
			Role:    c.GetString("user_role"),
		}
		err := orderTracker.Transition(ctx, orderId, *req.Status, actor)
		switch err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"order_id": orderId, "status": *req.Status})
		case lifecycle.ErrUnknownOrder:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case lifecycle.ErrUnauthorized:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case lifecycle.ErrInvalidTransition, lifecycle.ErrAlreadyTerminal:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order status update failed"})
		}
	}
}

type assignRiderRequest struct {
	Rider_id *string `json:"rider_id" validate:"required"`
}

func AssignRider() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN", "RESTAURANT"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		orderId := c.Param("order_id")

		var req assignRiderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		var riderUser models.User
		err := userCollection.FindOne(ctx, bson.M{"user_id": req.Rider_id, "user_role": "RIDER"}).Decode(&riderUser)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "rider not found"})
			return
		}

		result, err := orderCollection.UpdateOne(
			ctx,
			bson.M{"order_id": orderId},
			bson.D{{"$set", bson.D{
				{"rider_id", req.Rider_id},
				{"updated_at", time.Now()},
			}}},
		)
		if err != nil {
			msg := fmt.Sprintf("error : rider assignment failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ArchiveOrder hides an order from default listings. Orders are never
// deleted.
func ArchiveOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		if err := helpers.CheckUserRole(c, "ADMIN"); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		orderId := c.Param("order_id")

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !lifecycle.IsTerminal(order.Status) {
			c.JSON(http.StatusConflict, gin.H{"error": "only delivered or cancelled orders can be archived"})
			return
		}

		result, err := orderCollection.UpdateOne(
			ctx,
			bson.M{"order_id": orderId},
			bson.D{{"$set", bson.D{
				{"archived", true},
				{"updated_at", time.Now()},
			}}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order archive failed"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
