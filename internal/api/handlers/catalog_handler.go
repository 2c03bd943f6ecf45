package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

// CatalogHandler covers the small reference tables: categories and units.
type CatalogHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewCatalogHandler(db *gorm.DB, activity *services.ActivityService) *CatalogHandler {
	return &CatalogHandler{db: db, activity: activity}
}

// Categories

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "category", category.ID, category, "", nil)
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "category", category.ID, category, "", nil)
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "category", category.ID, category, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// Units

func (h *CatalogHandler) ListUnits(c *gin.Context) {
	var units []models.Unit
	if err := h.db.Order("name asc").Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, units)
}

type UnitRequest struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol"`
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit := models.Unit{Name: req.Name, Symbol: req.Symbol}
	if err := h.db.Create(&unit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "unit", unit.ID, unit, "", nil)
	c.JSON(http.StatusCreated, unit)
}

func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var unit models.Unit
	if err := h.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit.Name = req.Name
	unit.Symbol = req.Symbol
	if err := h.db.Save(&unit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "unit", unit.ID, unit, "", nil)
	c.JSON(http.StatusOK, unit)
}

func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var unit models.Unit
	if err := h.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Delete(&unit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "unit", unit.ID, unit, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted"})
}
