package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/logger"
	"github.com/tresorier/caisse/internal/metrics"
	"github.com/tresorier/caisse/internal/models"
)

// ActivityService appends audit records alongside each mutation. Writes are
// best-effort: a failed append is logged and never fails the mutation that
// triggered it.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Actor identifies who performed a mutation.
type Actor struct {
	ID   uint
	Name string
}

// Record appends one activity entry. The entity is serialized to JSON so the
// log keeps a readable snapshot even after its subject is deleted.
func (s *ActivityService) Record(actor Actor, action models.ActivityAction, entityKind string, entityID uint, entity interface{}, note string, project *models.Project) {
	snapshot := ""
	if entity != nil {
		if raw, err := json.Marshal(entity); err == nil {
			snapshot = string(raw)
		}
	}

	entry := models.ActivityLog{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Snapshot:   snapshot,
		Note:       note,
	}
	if project != nil {
		entry.ProjectID = &project.ID
		entry.ProjectName = project.Name
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"entity_kind": entityKind,
			"entity_id":   entityID,
			"action":      action,
		}).WithError(err).Error("failed to write activity log entry")
		return
	}
	metrics.IncActivityRecord()
}

// List returns activity entries, newest first, optionally filtered by
// entity kind and project.
func (s *ActivityService) List(entityKind string, projectID *uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	query := s.db.Order("created_at desc").Limit(limit)
	if entityKind != "" {
		query = query.Where("entity_kind = ?", entityKind)
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var entries []models.ActivityLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
