package finance

import (
	"fmt"

	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
)

// Insight severities, roughly in escalation order.
const (
	SeverityInfo        = "info"
	SeverityOpportunity = "opportunity"
	SeverityPriority    = "priority"
	SeveritySuccess     = "success"
)

// Insight is one piece of coaching derived from a snapshot. Plain data for
// the UI layer.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	ActionItem  string `json:"action_item,omitempty"`
}

// GenerateInsights inspects cash flow, the emergency fund, and the debt mix
// and returns prioritized observations.
func GenerateInsights(snap models.Snapshot, pol Policy) ([]Insight, error) {
	m, err := ComputeMetrics(snap, pol)
	if err != nil {
		return nil, err
	}

	var insights []Insight

	tenPercent := m.MonthlyNetIncome.Mul(decimal.RequireFromString("0.1"))
	switch {
	case m.Surplus.IsNegative():
		insights = append(insights, Insight{
			Title:       "Cash Flow Opportunity",
			Description: fmt.Sprintf("There's a $%s gap between income and spending. Let's close it together.", m.Surplus.Abs().StringFixed(0)),
			Severity:    SeverityPriority,
			ActionItem:  "Check your 'Wants' categories, small tweaks can make a big difference.",
		})
	case m.Surplus.LessThan(tenPercent):
		insights = append(insights, Insight{
			Title:       "Room to Grow",
			Description: "You're saving under 10% of your income, there's room to grow.",
			Severity:    SeverityOpportunity,
			ActionItem:  "One small cut could boost your savings rate.",
		})
	default:
		insights = append(insights, Insight{
			Title:       "You're crushing it!",
			Description: fmt.Sprintf("You have a $%s monthly surplus to fuel your goals.", m.Surplus.StringFixed(0)),
			Severity:    SeveritySuccess,
		})
	}

	if m.MonthlyBurn.IsPositive() {
		monthsRunway := float64(m.RunwayDays) / float64(pol.DaysPerMonth)
		if monthsRunway < 1 {
			insights = append(insights, Insight{
				Title:       "Safety Net Check",
				Description: fmt.Sprintf("You're building toward 1 month of expenses covered (currently $%s). Let's strengthen this.", m.LiquidAssets.StringFixed(0)),
				Severity:    SeverityPriority,
				ActionItem:  "Consider prioritizing cash savings, even $500 helps.",
			})
		} else if monthsRunway < 3 {
			insights = append(insights, Insight{
				Title:       "Growing Your Safety Net",
				Description: fmt.Sprintf("You're at %.1f months of expenses saved, next milestone is 3 months.", monthsRunway),
				Severity:    SeverityOpportunity,
				ActionItem:  "Keep building! Consider automating a small monthly transfer.",
			})
		}
	}

	var highInterest []models.Liability
	for _, l := range snap.Liabilities {
		if l.Balance.IsPositive() && l.AnnualRate.GreaterThan(pol.ToxicRateThreshold) {
			highInterest = append(highInterest, l)
		}
	}
	if len(highInterest) > 0 {
		avgRate := decimal.Zero
		for _, l := range highInterest {
			avgRate = avgRate.Add(l.AnnualRate)
		}
		avgRate = avgRate.Div(decimal.NewFromInt(int64(len(highInterest))))
		insights = append(insights, Insight{
			Title:       "High-Interest Focus",
			Description: fmt.Sprintf("You have %d higher-rate loans (avg %s%%), let's prioritize these.", len(highInterest), avgRate.Mul(decimal.NewFromInt(100)).StringFixed(1)),
			Severity:    SeverityOpportunity,
			ActionItem:  "The Avalanche method works great here: it saves you the most over time.",
		})
	}

	return insights, nil
}
