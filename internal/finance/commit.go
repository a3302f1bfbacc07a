package finance

import (
	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
)

// PlanChange is a proposed edit to one spending category: set the named
// category to Amount, creating it (with Kind, DebtService by default) when
// it does not exist yet.
type PlanChange struct {
	Category string              `json:"category"`
	Amount   decimal.Decimal     `json:"amount"`
	Kind     models.CategoryKind `json:"kind,omitempty"`
}

// CommitPlanChange applies a change to a working copy of the plan and
// verifies the result stays within income. A deficit fails with
// InsufficientBudgetError carrying the exact shortfall; the input plan is
// never mutated and the engine never auto-cuts other categories.
func CommitPlanChange(plan []models.SpendingCategory, change PlanChange, monthlyNetIncome decimal.Decimal) ([]models.SpendingCategory, error) {
	if change.Category == "" {
		return nil, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if change.Amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Reason: "must be non-negative"}
	}
	if change.Kind != "" && !change.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Reason: "unknown category kind"}
	}

	updated := make([]models.SpendingCategory, len(plan))
	copy(updated, plan)

	found := false
	for i := range updated {
		if updated[i].Name == change.Category {
			updated[i].Amount = change.Amount
			if change.Kind != "" {
				updated[i].Kind = change.Kind
			}
			found = true
			break
		}
	}
	if !found {
		kind := change.Kind
		if kind == "" {
			kind = models.KindDebtService
		}
		updated = append(updated, models.SpendingCategory{
			Name:   change.Category,
			Amount: change.Amount,
			Kind:   kind,
		})
	}

	total := models.PlanTotal(updated)
	if total.GreaterThan(monthlyNetIncome) {
		return nil, &InsufficientBudgetError{Shortfall: total.Sub(monthlyNetIncome)}
	}
	return updated, nil
}
