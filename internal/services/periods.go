package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
)

// DateInClosedPeriod reports whether the date falls inside any closed
// accounting period.
func DateInClosedPeriod(db *gorm.DB, date time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.ClosingPeriod{}).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check closed periods: %w", err)
	}
	return count > 0, nil
}
