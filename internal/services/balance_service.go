package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/ledger"
	"github.com/tresorier/caisse/internal/models"
)

// BalanceService loads the three PCA-relevant collections and delegates the
// arithmetic to the ledger package.
type BalanceService struct {
	db *gorm.DB
}

func NewBalanceService(db *gorm.DB) *BalanceService {
	return &BalanceService{db: db}
}

// OutstandingPCA computes the current PCA debt from the live collections.
func (s *BalanceService) OutstandingPCA() (decimal.Decimal, error) {
	var inflows []models.CashInflow
	if err := s.db.Where("source = ?", models.SourcePCA).Find(&inflows).Error; err != nil {
		return decimal.Zero, fmt.Errorf("load inflows: %w", err)
	}

	var expenses []models.Expense
	err := s.db.Preload("Items").
		Where("status = ? AND pca_related = ?", models.ExpenseValidated, true).
		Find(&expenses).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("load expenses: %w", err)
	}

	var reimbursements []models.Reimbursement
	if err := s.db.Find(&reimbursements).Error; err != nil {
		return decimal.Zero, fmt.Errorf("load reimbursements: %w", err)
	}

	return ledger.OutstandingBalance(inflows, expenses, reimbursements), nil
}
