package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tresorier/caisse/internal/api/middleware"
	"github.com/tresorier/caisse/internal/services"
)

// idParam parses the :id route parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseUint parses a decimal query value.
func parseUint(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// actorFrom builds the activity-log actor for the authenticated session.
func actorFrom(c *gin.Context) services.Actor {
	sess := middleware.GetSession(c)
	return services.Actor{ID: sess.UserID, Name: sess.Name}
}
