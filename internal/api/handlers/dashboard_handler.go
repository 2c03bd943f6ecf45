package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type DashboardHandler struct {
	db       *gorm.DB
	balances *services.BalanceService
}

func NewDashboardHandler(db *gorm.DB, balances *services.BalanceService) *DashboardHandler {
	return &DashboardHandler{db: db, balances: balances}
}

// Summary returns headline counts and the outstanding PCA balance.
func (h *DashboardHandler) Summary(c *gin.Context) {
	balance, err := h.balances.OutstandingPCA()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var projects, inflows, expenses, validated int64
	h.db.Model(&models.Project{}).Count(&projects)
	h.db.Model(&models.CashInflow{}).Count(&inflows)
	h.db.Model(&models.Expense{}).Count(&expenses)
	h.db.Model(&models.Expense{}).Where("status = ?", models.ExpenseValidated).Count(&validated)

	c.JSON(http.StatusOK, gin.H{
		"pca_outstanding":    balance,
		"projects":           projects,
		"inflows":            inflows,
		"expenses":           expenses,
		"validated_expenses": validated,
	})
}

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns the activity history, newest first.
func (h *ActivityHandler) List(c *gin.Context) {
	var projectID *uint
	if raw := c.Query("project_id"); raw != "" {
		id, ok := parseUint(raw)
		if ok {
			projectID = &id
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, ok := parseUint(raw); ok {
			limit = int(n)
		}
	}

	entries, err := h.activity.List(c.Query("entity_kind"), projectID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
