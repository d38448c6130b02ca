package helpers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// CheckUserRole verifies the authenticated user carries one of the given
// roles. The role claim is set on the context by the authentication
// middleware.
func CheckUserRole(c *gin.Context, roles ...string) error {
	userRole := c.GetString("user_role")
	for _, role := range roles {
		if userRole == role {
			return nil
		}
	}
	return errors.New("you are not authorized to access this resource")
}

// MatchUserRoleToUid allows admins through and otherwise requires the
// authenticated user to be acting on their own resource.
func MatchUserRoleToUid(c *gin.Context, userId string) error {
	userRole := c.GetString("user_role")
	uid := c.GetString("uid")

	if userRole == "ADMIN" {
		return nil
	}
	if uid != userId {
		return errors.New("you are not authorized to access this resource")
	}
	return nil
}
