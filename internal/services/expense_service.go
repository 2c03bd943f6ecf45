package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/ledger"
	"github.com/tresorier/caisse/internal/models"
)

var (
	ErrNoItems      = errors.New("expense requires at least one item")
	ErrPeriodClosed = errors.New("date falls inside a closed period")
	ErrNotDraft     = errors.New("only draft expenses can be modified")
)

// ExpenseItemInput is one line of a submitted expense.
type ExpenseItemInput struct {
	ArticleID  *uint           `json:"article_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	SupplierID *uint           `json:"supplier_id"`
	Advance    decimal.Decimal `json:"advance"`
}

// ExpenseInput is a submitted expense header plus its lines.
type ExpenseInput struct {
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	PCARelated  bool               `json:"pca_related"`
	ProjectID   *uint              `json:"project_id"`
	Items       []ExpenseItemInput `json:"items"`
}

// ExpenseService owns the expense lifecycle. Header and items always move
// together inside one transaction, so a failure midway leaves no orphaned
// items.
type ExpenseService struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// Create stores a new draft expense with its items and assigns the next
// sequential reference for the expense's month.
func (s *ExpenseService) Create(input ExpenseInput, userID uint) (*models.Expense, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	if err := s.ensureOpen(input.Date); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Date:        input.Date,
		Description: input.Description,
		Status:      models.ExpenseDraft,
		PCARelated:  input.PCARelated,
		ProjectID:   input.ProjectID,
		UserID:      userID,
	}
	for _, item := range input.Items {
		expense.Items = append(expense.Items, models.ExpenseItem{
			ArticleID:  item.ArticleID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			SupplierID: item.SupplierID,
			Advance:    item.Advance,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		prefix := ledger.MonthPrefix("DEP", input.Date)
		var existing []string
		if err := tx.Model(&models.Expense{}).
			Where("reference LIKE ?", prefix+"-%").
			Pluck("reference", &existing).Error; err != nil {
			return fmt.Errorf("load references: %w", err)
		}
		expense.Reference = ledger.NextReference(existing, prefix)

		return tx.Create(expense).Error
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Update replaces the header fields and the full item set of a draft
// expense. Validated expenses are immutable.
func (s *ExpenseService) Update(id uint, input ExpenseInput) (*models.Expense, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	var expense models.Expense
	if err := s.db.Preload("Items").First(&expense, id).Error; err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseDraft {
		return nil, ErrNotDraft
	}
	// Both the stored date and the submitted one must be open, otherwise an
	// update could move a record out of a closed period that Delete refuses
	// to touch.
	if err := s.ensureOpen(expense.Date); err != nil {
		return nil, err
	}
	if err := s.ensureOpen(input.Date); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return err
		}

		expense.Date = input.Date
		expense.Description = input.Description
		expense.PCARelated = input.PCARelated
		expense.ProjectID = input.ProjectID
		expense.Items = nil
		for _, item := range input.Items {
			expense.Items = append(expense.Items, models.ExpenseItem{
				ExpenseID:  expense.ID,
				ArticleID:  item.ArticleID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				SupplierID: item.SupplierID,
				Advance:    item.Advance,
			})
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&expense).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Validate marks a draft expense as validated, freezing it.
func (s *ExpenseService) Validate(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Items").First(&expense, id).Error; err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseDraft {
		return nil, ErrNotDraft
	}

	expense.Status = models.ExpenseValidated
	if err := s.db.Model(&expense).Update("status", models.ExpenseValidated).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete removes an expense and all its items atomically.
func (s *ExpenseService) Delete(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Items").First(&expense, id).Error; err != nil {
		return nil, err
	}
	if err := s.ensureOpen(expense.Date); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Expense{}, expense.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Get loads a single expense with its items and references.
func (s *ExpenseService) Get(id uint) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Preload("Items").Preload("Items.Article").Preload("Items.Supplier").
		Preload("Project").First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// List returns expenses newest first, optionally filtered by status and
// project.
func (s *ExpenseService) List(status models.ExpenseStatus, projectID *uint) ([]models.Expense, error) {
	query := s.db.Preload("Items").Preload("Project").Order("date desc, id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ensureOpen refuses mutations dated inside an already closed period.
func (s *ExpenseService) ensureOpen(date time.Time) error {
	closed, err := DateInClosedPeriod(s.db, date)
	if err != nil {
		return err
	}
	if closed {
		return ErrPeriodClosed
	}
	return nil
}
