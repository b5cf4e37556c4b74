package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoshine/config"
)

// AdminAuthMiddleware guards operator endpoints with the static admin
// token from config. Full identity management (JWT/OAuth) lives with
// the auth collaborator in front of this service.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := config.AppConfig.AdminToken
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		if strings.TrimPrefix(authHeader, "Bearer ") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
