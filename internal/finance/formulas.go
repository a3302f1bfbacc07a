package finance

import "github.com/shopspring/decimal"

var (
	twelve       = decimal.NewFromInt(12)
	monthsInYear = 12
)

// MonthlyInterest is one month of simple interest on the stated annual rate
// divided by 12 (nominal rate, matching user-facing statements).
func MonthlyInterest(principal, annualRate decimal.Decimal) decimal.Decimal {
	return principal.Mul(annualRate).Div(twelve)
}

// CompoundStep advances a value by one month of growth plus a contribution.
func CompoundStep(value, annualRate, contribution decimal.Decimal) decimal.Decimal {
	return value.Add(MonthlyInterest(value, annualRate)).Add(contribution)
}

// AmortizationPayment is the fixed monthly payment that retires principal
// over the given term: P = (r * PV) / (1 - (1+r)^-n).
func AmortizationPayment(principal, annualRate decimal.Decimal, years int) decimal.Decimal {
	n := years * monthsInYear
	if n <= 0 {
		return decimal.Zero
	}
	if !annualRate.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	r := annualRate.Div(twelve)
	growth := powInt(one.Add(r), n)
	return r.Mul(principal).Div(one.Sub(one.Div(growth)))
}

// FutureValue compounds a lump sum monthly over the given number of years.
func FutureValue(principal, annualRate decimal.Decimal, years int) decimal.Decimal {
	r := annualRate.Div(twelve)
	return principal.Mul(powInt(one.Add(r), years*monthsInYear))
}

// PresentValue discounts a future target back to today.
func PresentValue(futureValue, annualRate decimal.Decimal, years int) decimal.Decimal {
	r := annualRate.Div(twelve)
	return futureValue.Div(powInt(one.Add(r), years*monthsInYear))
}

// RealReturnRate adjusts a nominal rate for inflation via the Fisher
// equation: real = (1+nominal)/(1+inflation) - 1.
func RealReturnRate(nominalRate, inflationRate decimal.Decimal) decimal.Decimal {
	return one.Add(nominalRate).Div(one.Add(inflationRate)).Sub(one)
}

// powInt raises base to a non-negative integer power by repeated squaring,
// keeping the arithmetic in decimal space.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}
