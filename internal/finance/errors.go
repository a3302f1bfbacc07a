package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed or out-of-range input. The engine
// performs no partial computation once one is detected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientBudgetError means a proposed plan change would push total
// spending past income. The engine never auto-cuts categories; the caller
// decides where to find the shortfall.
type InsufficientBudgetError struct {
	Shortfall decimal.Decimal
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("plan exceeds income by %s", e.Shortfall.StringFixed(2))
}
