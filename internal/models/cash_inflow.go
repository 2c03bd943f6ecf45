package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InflowSource identifies where money entering the cash box came from.
type InflowSource string

const (
	SourceRebus   InflowSource = "rebus"
	SourceBank    InflowSource = "bank"
	SourcePCA     InflowSource = "pca"
	SourceGranule InflowSource = "granule"
	SourceEspece  InflowSource = "espece"
)

// KnownSource reports whether s is one of the recognized inflow sources.
func KnownSource(s InflowSource) bool {
	switch s {
	case SourceRebus, SourceBank, SourcePCA, SourceGranule, SourceEspece:
		return true
	}
	return false
}

// CashInflow records money entering the cash box.
type CashInflow struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UUID        string          `json:"uuid" gorm:"uniqueIndex"`
	Date        time.Time       `json:"date" gorm:"index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	Source      InflowSource    `json:"source" gorm:"index;not null"`
	Description string          `json:"description" gorm:"type:text"`
	ProjectID   *uint           `json:"project_id"`
	Project     *Project        `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	UserID      uint            `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (c *CashInflow) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// Reimbursement records money paid back against the PCA debt.
type Reimbursement struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UUID      string          `json:"uuid" gorm:"uniqueIndex"`
	Date      time.Time       `json:"date" gorm:"index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	Note      string          `json:"note"`
	UserID    uint            `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (r *Reimbursement) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}
