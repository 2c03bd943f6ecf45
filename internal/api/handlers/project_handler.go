package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

type ProjectHandler struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewProjectHandler(db *gorm.DB, activity *services.ActivityService) *ProjectHandler {
	return &ProjectHandler{db: db, activity: activity}
}

func (h *ProjectHandler) List(c *gin.Context) {
	var projects []models.Project
	if err := h.db.Order("name asc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{Name: req.Name, Description: req.Description, Active: true}
	if req.Active != nil {
		project.Active = *req.Active
	}

	if err := h.db.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionCreate, "project", project.ID, project, "", &project)
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var project models.Project
	if err := h.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	if req.Active != nil {
		project.Active = *req.Active
	}

	if err := h.db.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionUpdate, "project", project.ID, project, "", &project)
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var project models.Project
	if err := h.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Delete(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.activity.Record(actorFrom(c), models.ActionDelete, "project", project.ID, project, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
