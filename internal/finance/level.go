package finance

import "github.com/shopspring/decimal"

// LevelRule is one tier of the financial-level cascade. Rules are evaluated
// top-down; the first rule whose predicate holds decides the level, with an
// implicit default of 0. Keeping the cascade as data means thresholds can be
// swapped without touching the evaluation loop.
type LevelRule struct {
	Level     int
	Name      string
	Threshold string
	Met       func(m Metrics, pol Policy) bool
}

// LevelRules returns the cascade ordered from the highest tier down. Every
// tier above Solvency also requires non-negative cash flow: a spender in
// deficit drops to the default tier no matter what they hold.
func LevelRules() []LevelRule {
	return []LevelRule{
		{
			Level:     6,
			Name:      "Abundance",
			Threshold: "surplus >= AbundanceSurplusMultiple * monthly expenses",
			Met: func(m Metrics, pol Policy) bool {
				return m.MonthlySpending.IsPositive() &&
					m.Surplus.GreaterThanOrEqual(m.MonthlySpending.Mul(pol.AbundanceSurplusMultiple))
			},
		},
		{
			Level:     5,
			Name:      "Independence",
			Threshold: "invested assets * SafeWithdrawalRate >= annual expenses",
			Met: func(m Metrics, pol Policy) bool {
				annualExpenses := m.MonthlySpending.Mul(decimal.NewFromInt(12))
				return solvent(m) && annualExpenses.IsPositive() &&
					m.InvestedAssets.Mul(pol.SafeWithdrawalRate).GreaterThanOrEqual(annualExpenses)
			},
		},
		{
			Level:     4,
			Name:      "Growth",
			Threshold: "invested assets >= InvestedExpenseYears * annual expenses",
			Met: func(m Metrics, pol Policy) bool {
				annualExpenses := m.MonthlySpending.Mul(decimal.NewFromInt(12))
				return solvent(m) && annualExpenses.IsPositive() &&
					m.InvestedAssets.GreaterThanOrEqual(annualExpenses.Mul(decimal.NewFromInt(int64(pol.InvestedExpenseYears))))
			},
		},
		{
			Level:     3,
			Name:      "Security",
			Threshold: "liquid assets >= EmergencyFundMonths * monthly burn AND toxic debt == 0",
			Met: func(m Metrics, pol Policy) bool {
				cushion := m.MonthlyBurn.Mul(decimal.NewFromInt(int64(pol.EmergencyFundMonths)))
				return solvent(m) && m.ToxicDebt.IsZero() && m.LiquidAssets.GreaterThanOrEqual(cushion)
			},
		},
		{
			Level:     2,
			Name:      "Stability",
			Threshold: "toxic debt == 0",
			Met: func(m Metrics, pol Policy) bool {
				return solvent(m) && m.ToxicDebt.IsZero()
			},
		},
		{
			Level:     1,
			Name:      "Solvency",
			Threshold: "income > total expenses, debt outstanding",
			Met: func(m Metrics, pol Policy) bool {
				return m.Surplus.IsPositive() && m.TotalDebt.IsPositive()
			},
		},
	}
}

// solvent means spending does not exceed income. Break-even counts: a
// debt-free user at break-even still rates Stability or better.
func solvent(m Metrics) bool {
	return !m.Surplus.IsNegative()
}

const levelZeroName = "Crisis"

func evaluateLevel(m Metrics, pol Policy) (int, string) {
	for _, rule := range LevelRules() {
		if rule.Met(m, pol) {
			return rule.Level, rule.Name
		}
	}
	// Expenses at or above income, nothing else earned: the default tier.
	return 0, levelZeroName
}
