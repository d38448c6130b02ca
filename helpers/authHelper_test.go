package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/assert.v1"
)

func testContext(uid string, role string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("uid", uid)
	c.Set("user_role", role)
	return c
}

func TestCheckUserRole(t *testing.T) {
	c := testContext("u1", "ADMIN")
	assert.Equal(t, CheckUserRole(c, "ADMIN"), nil)
	assert.Equal(t, CheckUserRole(c, "RESTAURANT", "ADMIN"), nil)
	assert.NotEqual(t, CheckUserRole(c, "CUSTOMER"), nil)

	rider := testContext("u2", "RIDER")
	assert.Equal(t, CheckUserRole(rider, "RIDER"), nil)
	assert.NotEqual(t, CheckUserRole(rider, "ADMIN", "RESTAURANT"), nil)
}

func TestMatchUserRoleToUid(t *testing.T) {
	admin := testContext("admin-1", "ADMIN")
	assert.Equal(t, MatchUserRoleToUid(admin, "someone-else"), nil)

	customer := testContext("cust-1", "CUSTOMER")
	assert.Equal(t, MatchUserRoleToUid(customer, "cust-1"), nil)
	assert.NotEqual(t, MatchUserRoleToUid(customer, "cust-2"), nil)
}
