package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/config"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	router := gin.New()
	cfg := config.Config{
		JWTSecret:        "test-secret",
		AdminAccessCode:  "1806",
		MemberAccessCode: "2024",
	}
	require.NoError(t, Register(router, db, cfg))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, code string) string {
	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":       email,
		"password":    "password123",
		"name":        "Test",
		"access_code": code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, "GET", "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, "GET", "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminFullFlow(t *testing.T) {
	router := setupRouter(t)
	token := registerAndLogin(t, router, "admin@example.com", "")

	// First registered user is admin and can open everything
	w := doJSON(t, router, "POST", "/api/v1/projects", token, map[string]string{"name": "Fonctionnement"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/inflows", token, map[string]string{
		"date":   "2024-01-10",
		"amount": "500",
		"source": "pca",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, "GET", "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pca_outstanding")
	assert.Contains(t, w.Body.String(), "500")

	// Activity log captured both mutations
	w = doJSON(t, router, "GET", "/api/v1/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "project")
	assert.Contains(t, w.Body.String(), "cash_inflow")

	// Tabs carry the full fixed set
	w = doJSON(t, router, "GET", "/api/v1/tabs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tabsResp struct {
		Tabs []struct {
			ID string `json:"id"`
		} `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tabsResp))
	assert.Len(t, tabsResp.Tabs, 12)
}

func TestMemberDeniedOutsideDashboard(t *testing.T) {
	router := setupRouter(t)
	// First user (admin) exists so the member registration isn't promoted
	registerAndLogin(t, router, "admin@example.com", "")
	token := registerAndLogin(t, router, "member@example.com", "2024")

	w := doJSON(t, router, "GET", "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "/dashboard")

	w = doJSON(t, router, "POST", "/api/v1/expenses", token, map[string]interface{}{
		"date":  "2024-01-10",
		"items": []map[string]string{{"quantity": "1", "unit_price": "10"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// One visible tab only
	w = doJSON(t, router, "GET", "/api/v1/tabs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tabsResp struct {
		Tabs []struct {
			ID string `json:"id"`
		} `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tabsResp))
	require.Len(t, tabsResp.Tabs, 1)
	assert.Equal(t, "dashboard", tabsResp.Tabs[0].ID)
}

func TestRegisterRejectsUnknownAccessCode(t *testing.T) {
	router := setupRouter(t)
	registerAndLogin(t, router, "admin@example.com", "")

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":       "stranger@example.com",
		"password":    "password123",
		"name":        "Stranger",
		"access_code": "0000",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "caisse_logins_total")
}
