package finance

import (
	"fmt"

	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ValidateSnapshot checks every monetary field and rate in a snapshot before
// any calculation runs.
func ValidateSnapshot(snap models.Snapshot) error {
	for _, a := range snap.Assets {
		if a.Value.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("asset %q value", a.Name), Reason: "must be non-negative"}
		}
	}
	if err := validateLiabilities(snap.Liabilities); err != nil {
		return err
	}
	for _, src := range snap.Income {
		if src.Gross.IsNegative() || src.Net.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("income %q", src.Source), Reason: "amounts must be non-negative"}
		}
	}
	for _, c := range snap.Plan {
		if c.Amount.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("category %q amount", c.Name), Reason: "must be non-negative"}
		}
		if !c.Kind.Valid() {
			return &ValidationError{Field: fmt.Sprintf("category %q kind", c.Name), Reason: fmt.Sprintf("unknown kind %q", c.Kind)}
		}
	}
	return nil
}

func validateLiabilities(liabilities []models.Liability) error {
	for _, l := range liabilities {
		if l.Balance.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("liability %q balance", l.Name), Reason: "must be non-negative"}
		}
		if l.AnnualRate.IsNegative() || l.AnnualRate.GreaterThanOrEqual(one) {
			return &ValidationError{Field: fmt.Sprintf("liability %q annual_rate", l.Name), Reason: "must be in [0, 1)"}
		}
		if l.MinPayment.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("liability %q min_payment", l.Name), Reason: "must be non-negative"}
		}
	}
	return nil
}
