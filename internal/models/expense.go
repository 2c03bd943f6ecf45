package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseStatus is the lifecycle state of an expense.
type ExpenseStatus string

const (
	ExpenseDraft     ExpenseStatus = "draft"
	ExpenseValidated ExpenseStatus = "validated"
)

// Expense is an expense header owning one or more line items.
type Expense struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UUID        string        `json:"uuid" gorm:"uniqueIndex"`
	Reference   string        `json:"reference" gorm:"uniqueIndex;not null"`
	Date        time.Time     `json:"date" gorm:"index"`
	Description string        `json:"description" gorm:"type:text"`
	Status      ExpenseStatus `json:"status" gorm:"default:'draft';index"`
	PCARelated  bool          `json:"pca_related" gorm:"default:false"`
	ProjectID   *uint         `json:"project_id"`
	Project     *Project      `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	UserID      uint          `json:"user_id"`
	Items       []ExpenseItem `json:"items" gorm:"foreignKey:ExpenseID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return nil
}

// Total sums quantity times unit price across all line items.
func (e *Expense) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ExpenseItem is a single purchased line within an expense.
type ExpenseItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ExpenseID  uint            `json:"expense_id" gorm:"index;not null"`
	ArticleID  *uint           `json:"article_id"`
	Article    *Article        `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:numeric;not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	SupplierID *uint           `json:"supplier_id"`
	Supplier   *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	// Advance is the amount fronted to a beneficiary for this line.
	Advance   decimal.Decimal `json:"advance" gorm:"type:numeric"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LineTotal is quantity times unit price.
func (i ExpenseItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
