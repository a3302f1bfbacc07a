package finance

import "github.com/shopspring/decimal"

// Policy carries every tunable threshold the engine consults. All level
// cutoffs and burn-rate choices live here rather than in control flow, so a
// deployment can override them without touching the calculators.
type Policy struct {
	// EmergencyFundMonths is the liquid-asset cushion, in months of burn,
	// required for the Security level.
	EmergencyFundMonths int

	// InvestedExpenseYears is how many years of expenses invested growth
	// assets must cover for the Growth level.
	InvestedExpenseYears int

	// SafeWithdrawalRate is the fraction of invested assets assumed
	// sustainably spendable per year (the 4% rule by default).
	SafeWithdrawalRate decimal.Decimal

	// AbundanceSurplusMultiple: monthly surplus must be at least this many
	// times total monthly expenses for the Abundance level. The source
	// material leaves this cutoff open, so it is deliberately a parameter.
	AbundanceSurplusMultiple decimal.Decimal

	// ToxicRateThreshold marks an untagged liability as toxic consumer debt
	// once its annual rate reaches this fraction.
	ToxicRateThreshold decimal.Decimal

	// TargetSavingsRate is the share of net income reserved before the daily
	// safe-to-spend allowance is computed.
	TargetSavingsRate decimal.Decimal

	// BurnExcludesDebtService drops DebtService categories from the burn
	// rate used for runway. Default is false: runway assumes debt minimums
	// still have to be paid even with zero income.
	BurnExcludesDebtService bool

	// RunwayCapDays stands in for an infinite runway when burn is zero.
	RunwayCapDays int

	// DaysPerMonth is the calendar approximation used for daily figures.
	DaysPerMonth int

	// MaxPayoffMonths bounds the debt simulator. Hitting the cap marks the
	// schedule incomplete instead of looping forever.
	MaxPayoffMonths int
}

// DefaultPolicy returns the thresholds the coaching product ships with.
func DefaultPolicy() Policy {
	return Policy{
		EmergencyFundMonths:      6,
		InvestedExpenseYears:     5,
		SafeWithdrawalRate:       decimal.RequireFromString("0.04"),
		AbundanceSurplusMultiple: decimal.NewFromInt(3),
		ToxicRateThreshold:       decimal.RequireFromString("0.07"),
		TargetSavingsRate:        decimal.RequireFromString("0.10"),
		BurnExcludesDebtService:  false,
		RunwayCapDays:            9999,
		DaysPerMonth:             30,
		MaxPayoffMonths:          600,
	}
}
