package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/assert.v1"

	"food-ordering-system/models"
)

func TestToFixed(t *testing.T) {
	assert.Equal(t, toFixed(12.346, 2), 12.35)
	assert.Equal(t, toFixed(12.342, 2), 12.34)
	assert.Equal(t, toFixed(0.1+0.2, 2), 0.3)
	assert.Equal(t, toFixed(100.0, 2), 100.0)
}

func TestNewOrderNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := newOrderNumber()
		assert.Equal(t, strings.HasPrefix(number, "ORD-"), true)
		assert.Equal(t, len(number), 12)
		assert.Equal(t, number, strings.ToUpper(number))
		if seen[number] {
			t.Fatalf("duplicate order number %s", number)
		}
		seen[number] = true
	}
}

func actorContext(uid string, role string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("uid", uid)
	c.Set("user_role", role)
	return c
}

func TestCanViewOrder(t *testing.T) {
	owner := "cust-1"
	rider := "rider-1"
	order := models.Order{User_id: &owner, Rider_id: &rider}

	assert.Equal(t, canViewOrder(actorContext("cust-1", "CUSTOMER"), order), true)
	assert.Equal(t, canViewOrder(actorContext("cust-2", "CUSTOMER"), order), false)
	assert.Equal(t, canViewOrder(actorContext("rider-1", "RIDER"), order), true)
	assert.Equal(t, canViewOrder(actorContext("rider-2", "RIDER"), order), false)
	assert.Equal(t, canViewOrder(actorContext("staff", "ADMIN"), order), true)
	assert.Equal(t, canViewOrder(actorContext("staff", "RESTAURANT"), order), true)
}
