package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

// UserHandler manages user accounts. All routes are admin only; the route
// table enforces that.
type UserHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewUserHandler(db *gorm.DB, activity *services.ActivityService) *UserHandler {
	return &UserHandler{db: db, activity: activity}
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

type CreateUserRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role"`
	Admin          bool   `json:"admin"`
	EntriesAccess  bool   `json:"entries_access"`
	ExpensesAccess bool   `json:"expenses_access"`
	HistoryAccess  bool   `json:"history_access"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Email:          strings.ToLower(req.Email),
		Name:           req.Name,
		Role:           role,
		Admin:          req.Admin,
		EntriesAccess:  req.EntriesAccess,
		ExpensesAccess: req.ExpensesAccess,
		HistoryAccess:  req.HistoryAccess,
		Enabled:        true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "user", user.ID, user, "", nil)
	c.JSON(http.StatusCreated, user)
}

type UpdateUserRequest struct {
	Email          *string `json:"email,omitempty"`
	Name           *string `json:"name,omitempty"`
	Password       *string `json:"password,omitempty"`
	Role           *string `json:"role,omitempty"`
	Admin          *bool   `json:"admin,omitempty"`
	EntriesAccess  *bool   `json:"entries_access,omitempty"`
	ExpensesAccess *bool   `json:"expenses_access,omitempty"`
	HistoryAccess  *bool   `json:"history_access,omitempty"`
	Enabled        *bool   `json:"enabled,omitempty"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Admin != nil {
		user.Admin = *req.Admin
	}
	if req.EntriesAccess != nil {
		user.EntriesAccess = *req.EntriesAccess
	}
	if req.ExpensesAccess != nil {
		user.ExpensesAccess = *req.ExpensesAccess
	}
	if req.HistoryAccess != nil {
		user.HistoryAccess = *req.HistoryAccess
	}
	if req.Enabled != nil {
		user.Enabled = *req.Enabled
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "user", user.ID, user, "", nil)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Prevent deletion of the last admin
	if user.IsAdmin() {
		var adminCount int64
		h.db.Model(&models.User{}).Where("admin = ? OR role = ?", true, models.RoleAdmin).Count(&adminCount)
		if adminCount <= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete the last admin user"})
			return
		}
	}

	if err := h.db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "user", user.ID, user, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
