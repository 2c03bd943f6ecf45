package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type ClosingHandler struct {
	closings *services.ClosingService
	activity *services.ActivityService
}

func NewClosingHandler(closings *services.ClosingService, activity *services.ActivityService) *ClosingHandler {
	return &ClosingHandler{closings: closings, activity: activity}
}

func (h *ClosingHandler) List(c *gin.Context) {
	periods, err := h.closings.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, periods)
}

type ClosingRequest struct {
	Label     string `json:"label" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (h *ClosingHandler) Create(c *gin.Context) {
	var req ClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	period, err := h.closings.Close(req.Label, start, end, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPeriodOverlap):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "closing_period", period.ID, period, period.Label, nil)
	c.JSON(http.StatusCreated, period)
}
