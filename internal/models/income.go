package models

import "github.com/shopspring/decimal"

// PayFrequency describes how often an income source pays out.
type PayFrequency string

const (
	PayMonthly  PayFrequency = "monthly"
	PayBiWeekly PayFrequency = "bi-weekly"
	PayWeekly   PayFrequency = "weekly"
	PayAnnually PayFrequency = "annually"
)

var (
	twelve    = decimal.NewFromInt(12)
	twentySix = decimal.NewFromInt(26)
	fiftyTwo  = decimal.NewFromInt(52)
)

// IncomeSource is one stream of income. Gross and Net are per pay period;
// use MonthlyGross/MonthlyNet for normalized figures.
type IncomeSource struct {
	Source    string          `json:"source"`
	Gross     decimal.Decimal `json:"gross"`
	Net       decimal.Decimal `json:"net"`
	Frequency PayFrequency    `json:"frequency"`
}

// MonthlyGross returns the gross amount normalized to a calendar month.
func (i IncomeSource) MonthlyGross() decimal.Decimal {
	return toMonthly(i.Gross, i.Frequency)
}

// MonthlyNet returns the take-home amount normalized to a calendar month.
func (i IncomeSource) MonthlyNet() decimal.Decimal {
	return toMonthly(i.Net, i.Frequency)
}

func toMonthly(amount decimal.Decimal, freq PayFrequency) decimal.Decimal {
	switch freq {
	case PayBiWeekly:
		return amount.Mul(twentySix).Div(twelve)
	case PayWeekly:
		return amount.Mul(fiftyTwo).Div(twelve)
	case PayAnnually:
		return amount.Div(twelve)
	default:
		return amount
	}
}
