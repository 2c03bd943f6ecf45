package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tresorier/caisse/internal/access"
	"github.com/tresorier/caisse/internal/models"
)

func guardRouter(sess access.Session, pagePath string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(SessionKey, sess)
		c.Next()
	})
	r.GET("/test", Guard(pagePath), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGuard_AdminAllowed(t *testing.T) {
	r := guardRouter(access.Session{Authenticated: true, Admin: true}, access.PathUsers)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuard_DeniedWithRedirect(t *testing.T) {
	sess := access.Session{Authenticated: true, Role: models.RoleUser, EntriesAccess: true}
	r := guardRouter(sess, access.PathExpenses)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), access.PathDashboard)
}

func TestGuard_PCARedirect(t *testing.T) {
	sess := access.Session{Authenticated: true, Role: models.RolePCA}
	r := guardRouter(sess, access.PathExpenses)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), access.PathExpenseHistory)
}

func TestGuard_Unauthenticated(t *testing.T) {
	r := guardRouter(access.Session{}, access.PathDashboard)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), access.PathLogin)
}
