package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Risk grades for a prospective purchase.
const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// AffordabilityCheck is the verdict on a one-off purchase: what it does to
// runway and whether the cushion survives it.
type AffordabilityCheck struct {
	Safe         bool            `json:"safe"`
	RiskLevel    string          `json:"risk_level"`
	ImpactDays   int             `json:"impact_days"`
	NewLiquidity decimal.Decimal `json:"new_liquidity"`
	Message      string          `json:"message"`
}

// AssessAffordability grades a purchase against liquid reserves and the
// current burn rate. Thresholds: below zero liquidity is critical, under 3
// months of runway is high risk, under 6 months is a caution.
func AssessAffordability(cost, liquidity, monthlyBurn decimal.Decimal, pol Policy) AffordabilityCheck {
	newLiquidity := liquidity.Sub(cost)
	impactDays := runwayDays(newLiquidity, monthlyBurn, pol)

	check := AffordabilityCheck{
		Safe:         true,
		RiskLevel:    RiskLow,
		ImpactDays:   impactDays,
		NewLiquidity: newLiquidity,
		Message:      "Purchase is within safe limits.",
	}

	months := float64(impactDays) / float64(pol.DaysPerMonth)
	switch {
	case newLiquidity.IsNegative():
		check.Safe = false
		check.RiskLevel = RiskCritical
		check.ImpactDays = 0
		check.Message = "You cannot afford this. It would put you in debt."
	case impactDays < 3*pol.DaysPerMonth:
		check.Safe = false
		check.RiskLevel = RiskHigh
		check.Message = fmt.Sprintf("High risk: reduces runway to %.1f months (target: %dmo).", months, pol.EmergencyFundMonths)
	case impactDays < pol.EmergencyFundMonths*pol.DaysPerMonth:
		check.RiskLevel = RiskMedium
		check.Message = fmt.Sprintf("Caution: runway reduces to %.1f months.", months)
	}
	return check
}
