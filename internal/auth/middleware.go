package auth

import (
	"github.com/gin-gonic/gin"
)

// GetUserID retrieves the authenticated user's id from the gin context.
func GetUserID(c *gin.Context) string {
	userID, ok := c.Get("user_id")
	if !ok {
		return ""
	}
	return userID.(string)
}

// GetUserRoles retrieves the authenticated user's roles from the gin
// context.
func GetUserRoles(c *gin.Context) []string {
	roles, ok := c.Get("roles")
	if !ok {
		return nil
	}
	return roles.([]string)
}
