package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tresorier/caisse/internal/models"
)

func TestBalanceService_OutstandingPCA(t *testing.T) {
	db := setupTestDB(t)
	service := NewBalanceService(db)

	require.NoError(t, db.Create(&models.CashInflow{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(500),
		Source: models.SourcePCA,
	}).Error)
	require.NoError(t, db.Create(&models.CashInflow{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(900),
		Source: models.SourceBank,
	}).Error)

	expense := models.Expense{
		Reference:  "DEP-202401-0001",
		Date:       time.Now(),
		Status:     models.ExpenseValidated,
		PCARelated: true,
		Items: []models.ExpenseItem{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
		},
	}
	require.NoError(t, db.Create(&expense).Error)

	require.NoError(t, db.Create(&models.Reimbursement{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(100),
	}).Error)

	balance, err := service.OutstandingPCA()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(balance), "got %s", balance)
}
