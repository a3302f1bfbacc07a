package finance

import (
	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
)

// Metrics is the full set of scalar health indicators derived from one
// snapshot. Plain data, safe to serialize.
type Metrics struct {
	AssetsTotal      decimal.Decimal `json:"assets_total"`
	LiabilitiesTotal decimal.Decimal `json:"liabilities_total"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	LiquidAssets     decimal.Decimal `json:"liquid_assets"`
	IlliquidAssets   decimal.Decimal `json:"illiquid_assets"`
	InvestedAssets   decimal.Decimal `json:"invested_assets"`

	MonthlyGrossIncome  decimal.Decimal `json:"monthly_gross_income"`
	MonthlyNetIncome    decimal.Decimal `json:"monthly_net_income"`
	MonthlySpending     decimal.Decimal `json:"monthly_spending"`
	MonthlyDebtMinimums decimal.Decimal `json:"monthly_debt_minimums"`
	MonthlyBurn         decimal.Decimal `json:"monthly_burn"`

	// Surplus is net income minus total spending. A deficit is a valid,
	// reportable state, so this is the one money figure allowed negative.
	Surplus decimal.Decimal `json:"surplus"`

	SavingsRate     decimal.Decimal `json:"savings_rate"`
	DebtToIncome    decimal.Decimal `json:"debt_to_income"`
	UndefinedIncome bool            `json:"undefined_income"`

	RunwayDays int `json:"runway_days"`

	// SafeToSpendRaw keeps the unfloored intermediate so the UI can show the
	// true gap; DailySafeToSpend is floored at zero.
	SafeToSpendRaw   decimal.Decimal `json:"safe_to_spend_raw"`
	DailySafeToSpend decimal.Decimal `json:"daily_safe_to_spend"`

	ToxicDebt decimal.Decimal `json:"toxic_debt"`
	TotalDebt decimal.Decimal `json:"total_debt"`

	Level     int    `json:"level"`
	LevelName string `json:"level_name"`
}

// ComputeMetrics derives all health indicators from a snapshot. Pure: no
// side effects, no I/O, and identical output for identical input.
func ComputeMetrics(snap models.Snapshot, pol Policy) (Metrics, error) {
	if err := ValidateSnapshot(snap); err != nil {
		return Metrics{}, err
	}

	var m Metrics
	for _, a := range snap.Assets {
		m.AssetsTotal = m.AssetsTotal.Add(a.Value)
		if a.Liquid {
			m.LiquidAssets = m.LiquidAssets.Add(a.Value)
		}
		if a.IsGrowth() {
			m.InvestedAssets = m.InvestedAssets.Add(a.Value)
		}
	}
	m.IlliquidAssets = m.AssetsTotal.Sub(m.LiquidAssets)

	for _, l := range snap.Liabilities {
		m.LiabilitiesTotal = m.LiabilitiesTotal.Add(l.Balance)
		m.MonthlyDebtMinimums = m.MonthlyDebtMinimums.Add(l.MinPayment)
		if isToxic(l, pol) {
			m.ToxicDebt = m.ToxicDebt.Add(l.Balance)
		}
	}
	m.TotalDebt = m.LiabilitiesTotal
	m.NetWorth = m.AssetsTotal.Sub(m.LiabilitiesTotal)

	for _, src := range snap.Income {
		m.MonthlyGrossIncome = m.MonthlyGrossIncome.Add(src.MonthlyGross())
		m.MonthlyNetIncome = m.MonthlyNetIncome.Add(src.MonthlyNet())
	}

	var needs, debtService decimal.Decimal
	for _, c := range snap.Plan {
		m.MonthlySpending = m.MonthlySpending.Add(c.Amount)
		switch c.Kind {
		case models.KindNeed:
			needs = needs.Add(c.Amount)
		case models.KindDebtService:
			debtService = debtService.Add(c.Amount)
		}
	}

	m.MonthlyBurn = m.MonthlySpending
	if pol.BurnExcludesDebtService {
		m.MonthlyBurn = m.MonthlyBurn.Sub(debtService)
	}

	m.Surplus = m.MonthlyNetIncome.Sub(m.MonthlySpending)

	if m.MonthlyNetIncome.IsPositive() {
		m.SavingsRate = m.Surplus.Div(m.MonthlyNetIncome)
		m.DebtToIncome = m.MonthlyDebtMinimums.Div(m.MonthlyNetIncome)
	} else {
		m.UndefinedIncome = true
	}

	m.RunwayDays = runwayDays(m.LiquidAssets, m.MonthlyBurn, pol)

	targetSavings := m.MonthlyNetIncome.Mul(pol.TargetSavingsRate)
	days := decimal.NewFromInt(int64(pol.DaysPerMonth))
	m.SafeToSpendRaw = m.MonthlyNetIncome.Sub(needs).Sub(debtService).Sub(targetSavings).Div(days)
	m.DailySafeToSpend = m.SafeToSpendRaw
	if m.DailySafeToSpend.IsNegative() {
		m.DailySafeToSpend = decimal.Zero
	}

	m.Level, m.LevelName = evaluateLevel(m, pol)
	return m, nil
}

func runwayDays(liquid, burn decimal.Decimal, pol Policy) int {
	if !burn.IsPositive() {
		return pol.RunwayCapDays
	}
	days := liquid.Div(burn).Mul(decimal.NewFromInt(int64(pol.DaysPerMonth))).IntPart()
	if days > int64(pol.RunwayCapDays) {
		return pol.RunwayCapDays
	}
	return int(days)
}

// isToxic classifies a liability as high-interest consumer debt. Tags win
// when present; untagged debts fall back to the policy rate threshold.
func isToxic(l models.Liability, pol Policy) bool {
	if !l.Balance.IsPositive() {
		return false
	}
	switch {
	case l.HasTag(models.TagCreditCard), l.HasTag(models.TagPersonalLoan), l.HasTag(models.TagTaxes):
		return true
	case l.HasTag(models.TagStudentLoan), l.HasTag(models.TagFamilyLoan):
		return false
	}
	return l.AnnualRate.GreaterThanOrEqual(pol.ToxicRateThreshold)
}
