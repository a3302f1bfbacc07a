package models

import "github.com/shopspring/decimal"

// LiabilityTag labels a debt by its origin.
type LiabilityTag string

const (
	TagCreditCard   LiabilityTag = "Credit Card"
	TagPersonalLoan LiabilityTag = "Personal Loan"
	TagStudentLoan  LiabilityTag = "Student Loan"
	TagFamilyLoan   LiabilityTag = "Family Loan"
	TagTaxes        LiabilityTag = "Taxes"
)

// Liability represents a single debt in a snapshot. AnnualRate is fractional
// (0.24 means 24% APR), never a whole-number percentage.
type Liability struct {
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	MinPayment decimal.Decimal `json:"min_payment"`
	Tags       []LiabilityTag  `json:"tags,omitempty"`
}

// HasTag reports whether the liability carries the given tag.
func (l Liability) HasTag(tag LiabilityTag) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
