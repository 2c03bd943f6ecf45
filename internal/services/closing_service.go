package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/logger"
	"github.com/tresorier/caisse/internal/models"
)

var (
	ErrPeriodOverlap = errors.New("period overlaps an existing closing")
	ErrInvalidRange  = errors.New("period end precedes its start")
)

// ClosingService closes accounting periods and runs the monthly closing
// reminder. Closing snapshots the outstanding PCA balance so the figure
// survives later edits to the underlying records.
type ClosingService struct {
	db       *gorm.DB
	balances *BalanceService
	notifier *Notifier
	cron     *cron.Cron
}

func NewClosingService(db *gorm.DB, balances *BalanceService, notifier *Notifier) *ClosingService {
	return &ClosingService{db: db, balances: balances, notifier: notifier}
}

// Close freezes the given range. Overlapping an existing period is refused.
func (s *ClosingService) Close(label string, start, end time.Time, closedBy Actor) (*models.ClosingPeriod, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var overlapping int64
	err := s.db.Model(&models.ClosingPeriod{}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&overlapping).Error
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlapping > 0 {
		return nil, ErrPeriodOverlap
	}

	balance, err := s.balances.OutstandingPCA()
	if err != nil {
		return nil, fmt.Errorf("snapshot balance: %w", err)
	}

	period := &models.ClosingPeriod{
		Label:        label,
		StartDate:    start,
		EndDate:      end,
		PCABalance:   balance,
		ClosedAt:     time.Now(),
		ClosedByID:   closedBy.ID,
		ClosedByName: closedBy.Name,
	}
	if err := s.db.Create(period).Error; err != nil {
		return nil, err
	}
	return period, nil
}

// List returns closing periods, most recent range first.
func (s *ClosingService) List() ([]models.ClosingPeriod, error) {
	var periods []models.ClosingPeriod
	if err := s.db.Order("start_date desc").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// StartReminder schedules the closing reminder with the given cron
// expression. The job nudges the bookkeeper when the previous month has no
// closing period yet.
func (s *ClosingService) StartReminder(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, s.remindIfUnclosed)
	if err != nil {
		return fmt.Errorf("schedule closing reminder: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// StopReminder halts the scheduled reminder, if running.
func (s *ClosingService) StopReminder() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *ClosingService) remindIfUnclosed() {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := firstOfMonth.AddDate(0, -1, 0)
	prevEnd := firstOfMonth.AddDate(0, 0, -1)

	closed, err := s.rangeClosed(prevStart, prevEnd)
	if err != nil {
		logger.Log().WithError(err).Error("closing reminder: query failed")
		return
	}
	if closed {
		return
	}

	month := prevStart.Format("January 2006")
	logger.WithFields(map[string]interface{}{"month": month}).Info("previous month has no closing period")
	s.notifier.Send("Clôture en attente", fmt.Sprintf("Le mois de %s n'a pas encore été clôturé.", month))
}

// rangeClosed reports whether closing periods jointly cover every day from
// start through end. A month closed as several adjacent ranges counts, a
// month with an uncovered day does not. Dates carry day granularity, so a
// period starting the day after the covered cursor is still contiguous.
func (s *ClosingService) rangeClosed(start, end time.Time) (bool, error) {
	var periods []models.ClosingPeriod
	err := s.db.Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date asc").Find(&periods).Error
	if err != nil {
		return false, fmt.Errorf("load closing periods: %w", err)
	}

	covered := start.AddDate(0, 0, -1)
	for _, p := range periods {
		if p.StartDate.After(covered.AddDate(0, 0, 1)) {
			return false, nil
		}
		if p.EndDate.After(covered) {
			covered = p.EndDate
		}
		if !covered.Before(end) {
			return true, nil
		}
	}
	return false, nil
}
