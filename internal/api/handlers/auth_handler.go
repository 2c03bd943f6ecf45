package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tresorier/caisse/internal/access"
	"github.com/tresorier/caisse/internal/api/middleware"
	"github.com/tresorier/caisse/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	production  bool
}

func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{authService: authService, production: production}
}

// setSecureCookie sets an auth cookie with security best practices
// (HttpOnly, Secure in production, SameSite=Strict).
func (h *AuthHandler) setSecureCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", h.production, true)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.setSecureCookie(c, "auth_token", token, 3600*24)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required"`
	AccessCode string `json:"access_code"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name, req.AccessCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAccessCode) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSecureCookie(c, "auth_token", "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the session profile plus the navigation tabs it unlocks.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	u, err := h.authService.GetUserByID(sess.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": u,
		"tabs": access.VisibleTabs(sess),
	})
}

// Tabs returns only the visible navigation tabs for the session.
func (h *AuthHandler) Tabs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tabs": access.VisibleTabs(middleware.GetSession(c))})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := middleware.GetSession(c)
	if err := h.authService.ChangePassword(sess.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
