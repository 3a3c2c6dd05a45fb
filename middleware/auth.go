package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shalom-hotel/models"
	"shalom-hotel/utils"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// RequireAuth validates the Bearer token and stores user id and role on the
// gin context for handlers downstream.
func RequireAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.JSONError(c, http.StatusUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		userID, role, err := utils.ParseAuthToken(parts[1], jwtSecret)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		if role != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's id, 0 when absent.
func UserIDFromContext(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}

// IsAdmin reports whether the authenticated caller carries the ADMIN role.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ContextRoleKey)
	return role == models.RoleAdmin
}
