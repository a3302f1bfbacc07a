package finance

import (
	"testing"

	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyNet(amount string) models.IncomeSource {
	return models.IncomeSource{
		Source:    "Salary",
		Gross:     dec(amount),
		Net:       dec(amount),
		Frequency: models.PayMonthly,
	}
}

func TestComputeMetricsNetWorth(t *testing.T) {
	snap := models.Snapshot{
		Assets: []models.Asset{
			{Name: "Checking", Type: models.AssetCash, Value: dec("5000"), Liquid: true},
			{Name: "Brokerage", Type: models.AssetEquity, Value: dec("20000"), Liquid: true},
			{Name: "Car", Type: models.AssetVehicle, Value: dec("12000")},
		},
		Liabilities: []models.Liability{
			{Name: "Card", Balance: dec("3000"), AnnualRate: dec("0.24"), MinPayment: dec("90")},
		},
		Income: []models.IncomeSource{monthlyNet("4000")},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("1500"), Kind: models.KindNeed},
		},
	}

	m, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, m.AssetsTotal.Equal(dec("37000")))
	assert.True(t, m.NetWorth.Equal(dec("34000")))
	assert.True(t, m.LiquidAssets.Equal(dec("25000")))
	assert.True(t, m.IlliquidAssets.Equal(dec("12000")))
	assert.True(t, m.InvestedAssets.Equal(dec("20000")), "only growth assets count as invested")
	assert.True(t, m.ToxicDebt.Equal(dec("3000")), "high-rate card is toxic")
}

func TestComputeMetricsZeroIncome(t *testing.T) {
	snap := models.Snapshot{
		Plan: []models.SpendingCategory{
			{Name: "Groceries", Amount: dec("100"), Kind: models.KindNeed},
		},
	}

	m, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err, "zero income must never crash")

	assert.True(t, m.UndefinedIncome)
	assert.True(t, m.SavingsRate.IsZero())
	assert.True(t, m.DebtToIncome.IsZero())
	assert.True(t, m.Surplus.Equal(dec("-100")), "deficit is a reportable state")
}

func TestComputeMetricsRunway(t *testing.T) {
	pol := DefaultPolicy()

	snap := models.Snapshot{
		Assets: []models.Asset{
			{Name: "Savings", Type: models.AssetCash, Value: dec("10000"), Liquid: true},
		},
		Income: []models.IncomeSource{monthlyNet("5000")},
		Plan: []models.SpendingCategory{
			{Name: "Everything", Amount: dec("2000"), Kind: models.KindNeed},
		},
	}

	m, err := ComputeMetrics(snap, pol)
	require.NoError(t, err)
	assert.Equal(t, 150, m.RunwayDays)

	// Zero burn: capped sentinel, not a division failure.
	snap.Plan = nil
	m, err = ComputeMetrics(snap, pol)
	require.NoError(t, err)
	assert.Equal(t, pol.RunwayCapDays, m.RunwayDays)
}

func TestComputeMetricsRunwayBurnPolicy(t *testing.T) {
	snap := models.Snapshot{
		Assets: []models.Asset{
			{Name: "Savings", Type: models.AssetCash, Value: dec("9000"), Liquid: true},
		},
		Income: []models.IncomeSource{monthlyNet("5000")},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("2000"), Kind: models.KindNeed},
			{Name: "Debt Repayment", Amount: dec("1000"), Kind: models.KindDebtService},
		},
	}

	pol := DefaultPolicy()
	m, err := ComputeMetrics(snap, pol)
	require.NoError(t, err)
	assert.Equal(t, 90, m.RunwayDays, "default burn includes debt service")

	pol.BurnExcludesDebtService = true
	m, err = ComputeMetrics(snap, pol)
	require.NoError(t, err)
	assert.Equal(t, 135, m.RunwayDays)
}

func TestComputeMetricsSafeToSpend(t *testing.T) {
	snap := models.Snapshot{
		Income: []models.IncomeSource{monthlyNet("3000")},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("1500"), Kind: models.KindNeed},
			{Name: "Card", Amount: dec("300"), Kind: models.KindDebtService},
			{Name: "Fun", Amount: dec("200"), Kind: models.KindWant},
		},
	}

	m, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)

	// (3000 - 1500 - 300 - 300 target savings) / 30 = 30/day.
	assert.True(t, m.DailySafeToSpend.Equal(dec("30")), "got %s", m.DailySafeToSpend)
	assert.True(t, m.SafeToSpendRaw.Equal(dec("30")))
}

func TestComputeMetricsSafeToSpendFlooredAtZero(t *testing.T) {
	snap := models.Snapshot{
		Income: []models.IncomeSource{monthlyNet("2000")},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("2100"), Kind: models.KindNeed},
		},
	}

	m, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, m.DailySafeToSpend.IsZero(), "daily figure never implies negative spendable cash")
	assert.True(t, m.SafeToSpendRaw.IsNegative(), "raw breakdown keeps the true gap")
}

func TestComputeMetricsIncomeFrequencies(t *testing.T) {
	snap := models.Snapshot{
		Income: []models.IncomeSource{
			{Source: "Job", Gross: dec("1200"), Net: dec("1200"), Frequency: models.PayBiWeekly},
			{Source: "Bonus", Gross: dec("6000"), Net: dec("6000"), Frequency: models.PayAnnually},
		},
	}

	m, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)

	// 1200 * 26/12 + 6000/12 = 2600 + 500.
	assert.True(t, m.MonthlyNetIncome.Equal(dec("3100")), "got %s", m.MonthlyNetIncome)
}

func TestComputeMetricsIdempotent(t *testing.T) {
	snap := models.Snapshot{
		Assets: []models.Asset{
			{Name: "Savings", Type: models.AssetCash, Value: dec("8000"), Liquid: true},
		},
		Liabilities: []models.Liability{
			{Name: "Loan", Balance: dec("4000"), AnnualRate: dec("0.06"), MinPayment: dec("120")},
		},
		Income: []models.IncomeSource{monthlyNet("4500")},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("1400"), Kind: models.KindNeed},
		},
	}

	first, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)
	second, err := ComputeMetrics(snap, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot must yield identical metrics, level included")
}

func TestComputeMetricsValidation(t *testing.T) {
	tests := []struct {
		name string
		snap models.Snapshot
	}{
		{
			name: "negative asset value",
			snap: models.Snapshot{Assets: []models.Asset{{Name: "X", Value: dec("-1")}}},
		},
		{
			name: "negative liability balance",
			snap: models.Snapshot{Liabilities: []models.Liability{{Name: "X", Balance: dec("-1")}}},
		},
		{
			name: "rate out of range",
			snap: models.Snapshot{Liabilities: []models.Liability{{Name: "X", Balance: dec("10"), AnnualRate: dec("1.0")}}},
		},
		{
			name: "unknown category kind",
			snap: models.Snapshot{Plan: []models.SpendingCategory{{Name: "X", Amount: dec("10"), Kind: "Luxury"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeMetrics(tt.snap, DefaultPolicy())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}
