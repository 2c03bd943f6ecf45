package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type ExpenseHandler struct {
	expenses *services.ExpenseService
	activity *services.ActivityService
	db       *gorm.DB
}

func NewExpenseHandler(db *gorm.DB, expenses *services.ExpenseService, activity *services.ActivityService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, activity: activity, db: db}
}

type ExpenseRequest struct {
	Date        string                      `json:"date" binding:"required"`
	Description string                      `json:"description"`
	PCARelated  bool                        `json:"pca_related"`
	ProjectID   *uint                       `json:"project_id"`
	Items       []services.ExpenseItemInput `json:"items" binding:"required"`
}

func (r ExpenseRequest) toInput() (services.ExpenseInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return services.ExpenseInput{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return services.ExpenseInput{
		Date:        date,
		Description: r.Description,
		PCARelated:  r.PCARelated,
		ProjectID:   r.ProjectID,
		Items:       r.Items,
	}, nil
}

func (h *ExpenseHandler) List(c *gin.Context) {
	var projectID *uint
	if raw := c.Query("project_id"); raw != "" {
		var id uint
		if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
			projectID = &id
		}
	}

	expenses, err := h.expenses.List(models.ExpenseStatus(c.Query("status")), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	expense, err := h.expenses.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense, "total": expense.Total()})
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Create(input, actorFrom(c).ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "expense", expense.ID, expense, expense.Reference, expense.Project)
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Update(id, input)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "expense", expense.ID, expense, expense.Reference, expense.Project)
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Validate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	expense, err := h.expenses.Validate(id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "expense", expense.ID, expense, "validated "+expense.Reference, expense.Project)
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	expense, err := h.expenses.Delete(id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "expense", expense.ID, expense, expense.Reference, expense.Project)
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// Export streams the expense history as CSV, one row per line item.
func (h *ExpenseHandler) Export(c *gin.Context) {
	var expenses []models.Expense
	err := h.db.Preload("Items").Preload("Items.Article").Preload("Items.Supplier").
		Preload("Project").Order("date asc").Find(&expenses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=expenses-%s.csv", time.Now().Format("20060102")))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"reference", "date", "status", "project", "article", "supplier", "quantity", "unit_price", "line_total"})
	for _, e := range expenses {
		project := ""
		if e.Project != nil {
			project = e.Project.Name
		}
		for _, item := range e.Items {
			article := ""
			if item.Article != nil {
				article = item.Article.Name
			}
			supplier := ""
			if item.Supplier != nil {
				supplier = item.Supplier.Name
			}
			_ = w.Write([]string{
				e.Reference,
				e.Date.Format("2006-01-02"),
				string(e.Status),
				project,
				article,
				supplier,
				item.Quantity.String(),
				item.UnitPrice.String(),
				item.LineTotal().String(),
			})
		}
	}
	w.Flush()
}

func (h *ExpenseHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
	case errors.Is(err, services.ErrNoItems), errors.Is(err, services.ErrNotDraft):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPeriodClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
