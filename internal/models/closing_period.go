package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClosingPeriod freezes the books for a date range. The outstanding PCA
// balance at closing time is snapshotted so later edits cannot rewrite
// history.
type ClosingPeriod struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UUID         string          `json:"uuid" gorm:"uniqueIndex"`
	Label        string          `json:"label" gorm:"not null"`
	StartDate    time.Time       `json:"start_date" gorm:"index;not null"`
	EndDate      time.Time       `json:"end_date" gorm:"index;not null"`
	PCABalance   decimal.Decimal `json:"pca_balance" gorm:"type:numeric"`
	ClosedAt     time.Time       `json:"closed_at"`
	ClosedByID   uint            `json:"closed_by_id"`
	ClosedByName string          `json:"closed_by_name"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (c *ClosingPeriod) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// Covers reports whether t falls inside the closed range, inclusive.
func (c ClosingPeriod) Covers(t time.Time) bool {
	return !t.Before(c.StartDate) && !t.After(c.EndDate)
}
