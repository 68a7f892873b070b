package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// userIDKey and userRoleKey store the authenticated identity in the request
// context. Custom types prevent collisions.
const (
	userIDKey   = contextKey("userID")
	userRoleKey = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request
// context. The second return reports whether it was present.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserRoleFromContext retrieves the authenticated user's role from the
// request context.
func GetUserRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	role, ok := c.Request.Context().Value(userRoleKey).(domain.UserRole)
	return role, ok && role != ""
}
