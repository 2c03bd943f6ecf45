package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tresorier/caisse/internal/access"
	"github.com/tresorier/caisse/internal/services"
)

const (
	// SessionKey is the gin context key holding the resolved access.Session.
	SessionKey = "session"
	// UserIDKey mirrors the authenticated user's ID for handlers.
	UserIDKey = "userID"
	// RoleKey mirrors the authenticated user's role for handlers.
	RoleKey = "role"
)

// AuthMiddleware authenticates the request from a bearer token or the auth
// cookie and stores a fresh Session snapshot in the context. The snapshot is
// rebuilt from the user's current database row on every request.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie("auth_token"); err == nil {
			token = cookie
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		sess := access.SessionFor(user)
		c.Set(SessionKey, sess)
		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, user.Role)
		c.Next()
	}
}

// GetSession returns the Session stored by AuthMiddleware. The zero Session
// is unauthenticated.
func GetSession(c *gin.Context) access.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(access.Session); ok {
			return sess
		}
	}
	return access.Session{}
}

// RequireRole aborts with 403 unless the context role matches.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := c.Get(RoleKey); got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
