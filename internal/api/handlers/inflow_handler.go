package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type InflowHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewInflowHandler(db *gorm.DB, activity *services.ActivityService) *InflowHandler {
	return &InflowHandler{db: db, activity: activity}
}

func (h *InflowHandler) List(c *gin.Context) {
	query := h.db.Preload("Project").Order("date desc, id desc")
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var inflows []models.CashInflow
	if err := query.Find(&inflows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inflows)
}

type InflowRequest struct {
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Source      string          `json:"source" binding:"required"`
	Description string          `json:"description"`
	ProjectID   *uint           `json:"project_id"`
}

func (h *InflowHandler) parse(c *gin.Context) (*models.CashInflow, bool) {
	var req InflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return nil, false
	}

	source := models.InflowSource(req.Source)
	if !models.KnownSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown inflow source"})
		return nil, false
	}

	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return nil, false
	}

	closed, err := services.DateInClosedPeriod(h.db, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if closed {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrPeriodClosed.Error()})
		return nil, false
	}

	return &models.CashInflow{
		Date:        date,
		Amount:      req.Amount,
		Source:      source,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	}, true
}

func (h *InflowHandler) Create(c *gin.Context) {
	inflow, ok := h.parse(c)
	if !ok {
		return
	}
	inflow.UserID = actorFrom(c).ID

	if err := h.db.Create(inflow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "cash_inflow", inflow.ID, inflow, "", nil)
	c.JSON(http.StatusCreated, inflow)
}

func (h *InflowHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var existing models.CashInflow
	if err := h.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The stored date must be open too, otherwise an update could move the
	// record out of a closed period that Delete refuses to touch.
	closed, err := services.DateInClosedPeriod(h.db, existing.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if closed {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrPeriodClosed.Error()})
		return
	}

	inflow, ok := h.parse(c)
	if !ok {
		return
	}

	existing.Date = inflow.Date
	existing.Amount = inflow.Amount
	existing.Source = inflow.Source
	existing.Description = inflow.Description
	existing.ProjectID = inflow.ProjectID

	if err := h.db.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "cash_inflow", existing.ID, existing, "", nil)
	c.JSON(http.StatusOK, existing)
}

func (h *InflowHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var inflow models.CashInflow
	if err := h.db.First(&inflow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	closed, err := services.DateInClosedPeriod(h.db, inflow.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if closed {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrPeriodClosed.Error()})
		return
	}

	if err := h.db.Delete(&inflow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "cash_inflow", inflow.ID, inflow, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Inflow deleted"})
}

// Export streams the inflow history as CSV.
func (h *InflowHandler) Export(c *gin.Context) {
	var inflows []models.CashInflow
	if err := h.db.Preload("Project").Order("date asc").Find(&inflows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=inflows-%s.csv", time.Now().Format("20060102")))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"date", "source", "amount", "description", "project"})
	for _, in := range inflows {
		project := ""
		if in.Project != nil {
			project = in.Project.Name
		}
		_ = w.Write([]string{
			in.Date.Format("2006-01-02"),
			string(in.Source),
			in.Amount.String(),
			in.Description,
			project,
		})
	}
	w.Flush()
}
