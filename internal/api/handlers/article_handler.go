package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type ArticleHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewArticleHandler(db *gorm.DB, activity *services.ActivityService) *ArticleHandler {
	return &ArticleHandler{db: db, activity: activity}
}

func (h *ArticleHandler) List(c *gin.Context) {
	var articles []models.Article
	query := h.db.Preload("Category").Preload("Unit").Order("name asc")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

type ArticleRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID *uint  `json:"category_id"`
	UnitID     *uint  `json:"unit_id"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := models.Article{Name: req.Name, CategoryID: req.CategoryID, UnitID: req.UnitID}
	if err := h.db.Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "article", article.ID, article, "", nil)
	c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var article models.Article
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article.Name = req.Name
	article.CategoryID = req.CategoryID
	article.UnitID = req.UnitID
	if err := h.db.Save(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "article", article.ID, article, "", nil)
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var article models.Article
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Delete(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "article", article.ID, article, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
