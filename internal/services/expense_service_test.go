package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
)

func expenseInput(date time.Time) ExpenseInput {
	return ExpenseInput{
		Date:        date,
		Description: "fournitures",
		PCARelated:  true,
		Items: []ExpenseItemInput{
			{Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)},
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	}
}

func TestExpenseService_CreateAssignsReference(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	first, err := service.Create(expenseInput(date), 1)
	require.NoError(t, err)
	assert.Equal(t, "DEP-202401-0001", first.Reference)
	assert.Equal(t, models.ExpenseDraft, first.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(first.Total()))

	second, err := service.Create(expenseInput(date), 1)
	require.NoError(t, err)
	assert.Equal(t, "DEP-202401-0002", second.Reference)

	// A new month restarts the counter
	february, err := service.Create(expenseInput(date.AddDate(0, 1, 0)), 1)
	require.NoError(t, err)
	assert.Equal(t, "DEP-202402-0001", february.Reference)
}

func TestExpenseService_CreateRequiresItems(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)

	input := expenseInput(time.Now())
	input.Items = nil
	_, err := service.Create(input, 1)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestExpenseService_UpdateReplacesItems(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	expense, err := service.Create(expenseInput(date), 1)
	require.NoError(t, err)

	input := expenseInput(date)
	input.Items = []ExpenseItemInput{
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(75)},
	}
	updated, err := service.Update(expense.ID, input)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)

	var count int64
	db.Model(&models.ExpenseItem{}).Where("expense_id = ?", expense.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestExpenseService_ValidateFreezes(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)

	expense, err := service.Create(expenseInput(time.Now()), 1)
	require.NoError(t, err)

	validated, err := service.Validate(expense.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseValidated, validated.Status)

	// A validated expense is immutable
	_, err = service.Update(expense.ID, expenseInput(time.Now()))
	assert.ErrorIs(t, err, ErrNotDraft)

	_, err = service.Validate(expense.ID)
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestExpenseService_DeleteRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)

	expense, err := service.Create(expenseInput(time.Now()), 1)
	require.NoError(t, err)

	_, err = service.Delete(expense.ID)
	require.NoError(t, err)

	var headers, items int64
	db.Model(&models.Expense{}).Count(&headers)
	db.Model(&models.ExpenseItem{}).Count(&items)
	assert.Equal(t, int64(0), headers)
	assert.Equal(t, int64(0), items, "no orphaned items after delete")

	_, err = service.Get(expense.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExpenseService_RefusesClosedPeriod(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)

	require.NoError(t, db.Create(&models.ClosingPeriod{
		Label:     "Janvier 2024",
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		ClosedAt:  time.Now(),
	}).Error)

	_, err := service.Create(expenseInput(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)), 1)
	assert.ErrorIs(t, err, ErrPeriodClosed)

	// Outside the closed range is fine
	_, err = service.Create(expenseInput(time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)), 1)
	assert.NoError(t, err)
}

func TestExpenseService_UpdateCannotLeaveClosedPeriod(t *testing.T) {
	db := setupTestDB(t)
	service := NewExpenseService(db)

	expense, err := service.Create(expenseInput(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)), 1)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.ClosingPeriod{
		Label:     "Janvier 2024",
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		ClosedAt:  time.Now(),
	}).Error)

	// Moving the date out of the closed range is refused, same as Delete
	_, err = service.Update(expense.ID, expenseInput(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrPeriodClosed)

	_, err = service.Delete(expense.ID)
	assert.ErrorIs(t, err, ErrPeriodClosed)

	var stored models.Expense
	require.NoError(t, db.First(&stored, expense.ID).Error)
	assert.Equal(t, time.January, stored.Date.Month())
}
