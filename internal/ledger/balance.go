// Package ledger holds the pure aggregation logic over already-fetched
// records: the outstanding PCA balance and sequential reference codes.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tresorier/caisse/internal/models"
)

// OutstandingBalance computes the amount still owed against the PCA
// account: pca-sourced inflows, minus validated pca-related expense lines,
// minus reimbursements, clamped at zero. The balance is presented as
// "amount owed" and can never be negative from the organization's point of
// view; callers must not remove the clamp.
//
// Record dates are informational here and never filter anything; a zero
// amount contributes zero rather than failing the aggregation.
func OutstandingBalance(inflows []models.CashInflow, expenses []models.Expense, reimbursements []models.Reimbursement) decimal.Decimal {
	inflowSum := decimal.Zero
	for _, in := range inflows {
		if in.Source != models.SourcePCA {
			continue
		}
		inflowSum = inflowSum.Add(in.Amount)
	}

	expenseSum := decimal.Zero
	for _, e := range expenses {
		if e.Status != models.ExpenseValidated || !e.PCARelated {
			continue
		}
		for _, item := range e.Items {
			expenseSum = expenseSum.Add(item.LineTotal())
		}
	}

	reimbursementSum := decimal.Zero
	for _, r := range reimbursements {
		reimbursementSum = reimbursementSum.Add(r.Amount)
	}

	balance := inflowSum.Sub(expenseSum).Sub(reimbursementSum)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
