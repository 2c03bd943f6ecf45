package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tresorier/caisse/internal/access"
	"github.com/tresorier/caisse/internal/metrics"
)

// Guard enforces the access resolver for one page path. Denials carry the
// redirect target so the client can land the user somewhere sensible.
func Guard(pagePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		decision := access.Resolve(sess, pagePath)
		if decision.Allowed {
			c.Next()
			return
		}

		metrics.IncAccessDenied()
		status := http.StatusForbidden
		if !sess.Authenticated {
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":    "access denied",
			"redirect": decision.RedirectPath,
		})
	}
}
