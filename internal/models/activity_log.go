package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityAction is the kind of mutation an activity entry records.
type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
	ActionUpdate ActivityAction = "update"
	ActionDelete ActivityAction = "delete"
)

// ActivityLog is an append-only audit record written alongside each mutation.
// Entries survive deletion of their subject and are never updated or deleted
// by the application itself.
type ActivityLog struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UUID        string         `json:"uuid" gorm:"uniqueIndex"`
	ActorID     uint           `json:"actor_id" gorm:"index"`
	ActorName   string         `json:"actor_name"`
	Action      ActivityAction `json:"action" gorm:"size:16;not null;index"`
	EntityKind  string         `json:"entity_kind" gorm:"size:50;not null;index"`
	EntityID    uint           `json:"entity_id"`
	Snapshot    string         `json:"snapshot" gorm:"type:text"` // JSON copy of the entity at mutation time
	Note        string         `json:"note" gorm:"type:text"`
	ProjectID   *uint          `json:"project_id,omitempty"`
	ProjectName string         `json:"project_name,omitempty"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for ActivityLog.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}
