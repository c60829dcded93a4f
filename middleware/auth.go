package middleware

import (
	"net/http"
	"strings"

	"busbook/utils"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "userID"

// JWTAuthMiddleware validates the bearer token and puts the user ID into the
// Gin context under UserIDKey.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user ID from the context. Empty when the
// request skipped auth middleware.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
