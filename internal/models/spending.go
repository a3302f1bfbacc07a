package models

import "github.com/shopspring/decimal"

// CategoryKind classifies a spending category.
type CategoryKind string

const (
	KindNeed        CategoryKind = "Need"
	KindWant        CategoryKind = "Want"
	KindDebtService CategoryKind = "DebtService"
)

// Valid reports whether the kind is one of the known values.
func (k CategoryKind) Valid() bool {
	switch k {
	case KindNeed, KindWant, KindDebtService:
		return true
	}
	return false
}

// SpendingCategory is one line of the monthly spending plan.
type SpendingCategory struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Kind   CategoryKind    `json:"kind"`
}

// PlanTotal sums all category amounts in a spending plan.
func PlanTotal(plan []SpendingCategory) decimal.Decimal {
	total := decimal.Zero
	for _, c := range plan {
		total = total.Add(c.Amount)
	}
	return total
}
