package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type ReimbursementHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewReimbursementHandler(db *gorm.DB, activity *services.ActivityService) *ReimbursementHandler {
	return &ReimbursementHandler{db: db, activity: activity}
}

func (h *ReimbursementHandler) List(c *gin.Context) {
	var reimbursements []models.Reimbursement
	if err := h.db.Order("date desc, id desc").Find(&reimbursements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reimbursements)
}

type ReimbursementRequest struct {
	Date   string          `json:"date" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note"`
}

func (h *ReimbursementHandler) Create(c *gin.Context) {
	var req ReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}

	reimbursement := models.Reimbursement{
		Date:   date,
		Amount: req.Amount,
		Note:   req.Note,
		UserID: actorFrom(c).ID,
	}
	if err := h.db.Create(&reimbursement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "reimbursement", reimbursement.ID, reimbursement, "", nil)
	c.JSON(http.StatusCreated, reimbursement)
}

func (h *ReimbursementHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var reimbursement models.Reimbursement
	if err := h.db.First(&reimbursement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reimbursement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Delete(&reimbursement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "reimbursement", reimbursement.ID, reimbursement, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Reimbursement deleted"})
}
