package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
)

// Strategy selects the payoff ordering.
type Strategy string

const (
	// StrategyAvalanche targets the highest interest rate first.
	StrategyAvalanche Strategy = "avalanche"
	// StrategySnowball targets the smallest balance first.
	StrategySnowball Strategy = "snowball"
)

// Valid reports whether the strategy is one of the known orderings.
func (s Strategy) Valid() bool {
	return s == StrategyAvalanche || s == StrategySnowball
}

// avalancheLess orders by annual rate descending, ties broken by balance
// descending, then by name. The name tie-break makes the ordering total so
// schedules reproduce exactly run to run.
func avalancheLess(a, b models.Liability) bool {
	if c := a.AnnualRate.Cmp(b.AnnualRate); c != 0 {
		return c > 0
	}
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c > 0
	}
	return a.Name < b.Name
}

// snowballLess orders by balance ascending, ties broken by annual rate
// descending, then by name.
func snowballLess(a, b models.Liability) bool {
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c < 0
	}
	if c := a.AnnualRate.Cmp(b.AnnualRate); c != 0 {
		return c > 0
	}
	return a.Name < b.Name
}

// orderLiabilities copies the active (balance > 0) liabilities and sorts
// them by the strategy's comparator. Paid-off debts never enter the order.
func orderLiabilities(liabilities []models.Liability, strategy Strategy) []models.Liability {
	active := make([]models.Liability, 0, len(liabilities))
	for _, l := range liabilities {
		if l.Balance.IsPositive() {
			active = append(active, l)
		}
	}
	less := avalancheLess
	if strategy == StrategySnowball {
		less = snowballLess
	}
	sort.SliceStable(active, func(i, j int) bool { return less(active[i], active[j]) })
	return active
}

// PayoffEvent records a liability reaching zero balance.
type PayoffEvent struct {
	MonthIndex int       `json:"month_index"`
	Date       time.Time `json:"date"`
	Name       string    `json:"name"`
}

// MonthRecord is one simulated month's aggregate, suitable for charting.
// Conservation holds exactly: TotalBalance equals the previous month's
// balance plus InterestAccrued minus TotalPaid.
type MonthRecord struct {
	MonthIndex      int             `json:"month_index"`
	Date            time.Time       `json:"date"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
	PrincipalPaid   decimal.Decimal `json:"principal_paid"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
}

// Schedule is the full outcome of one payoff simulation. Ephemeral: created
// per call, never persisted.
type Schedule struct {
	Strategy          Strategy        `json:"strategy"`
	PayoffMonth       int             `json:"payoff_month"`
	DebtFreeDate      time.Time       `json:"debt_free_date"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	Months            []MonthRecord   `json:"months"`
	Payoffs           []PayoffEvent   `json:"payoffs"`

	// Incomplete is set when the safety cap was hit before all balances
	// reached zero. A reported condition, not a silent truncation.
	Incomplete bool `json:"incomplete"`

	// BudgetInsufficient is set when a stated monthly budget could not cover
	// the minimum payments. Minimums are non-negotiable and get paid anyway.
	BudgetInsufficient bool `json:"budget_insufficient"`
}

// PayoffInput parameterizes one simulation run.
type PayoffInput struct {
	Liabilities []models.Liability

	// ExtraPayment is directed, on top of all minimums, at the first active
	// liability in strategy order.
	ExtraPayment decimal.Decimal

	// MonthlyBudget optionally caps total monthly outlay. Zero means no cap:
	// the budget is the sum of minimums plus ExtraPayment. When positive it
	// replaces ExtraPayment as the source of extra funds.
	MonthlyBudget decimal.Decimal

	Strategy Strategy

	// Start anchors the schedule's dates. Zero means the current month.
	Start time.Time
}

// SimulatePayoff runs a month-by-month amortization of the given liabilities
// under one strategy. Minimums are always paid (capped so nothing is ever
// overpaid into a negative balance); freed minimums from retired debts and
// the extra budget roll into the first active liability in order.
func SimulatePayoff(in PayoffInput, pol Policy) (Schedule, error) {
	if !in.Strategy.Valid() {
		return Schedule{}, &ValidationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", in.Strategy)}
	}
	if in.ExtraPayment.IsNegative() {
		return Schedule{}, &ValidationError{Field: "extra_payment", Reason: "must be non-negative"}
	}
	if in.MonthlyBudget.IsNegative() {
		return Schedule{}, &ValidationError{Field: "monthly_budget", Reason: "must be non-negative"}
	}
	if err := validateLiabilities(in.Liabilities); err != nil {
		return Schedule{}, err
	}

	start := monthStart(in.Start)
	debts := orderLiabilities(in.Liabilities, in.Strategy)

	sched := Schedule{
		Strategy:     in.Strategy,
		DebtFreeDate: start,
	}

	opening := decimal.Zero
	for _, d := range debts {
		opening = opening.Add(d.Balance)
	}
	sched.Months = append(sched.Months, MonthRecord{MonthIndex: 0, Date: start, TotalBalance: opening})
	if len(debts) == 0 {
		// Nothing to pay: already debt-free.
		return sched, nil
	}

	maxMonths := pol.MaxPayoffMonths
	if maxMonths <= 0 {
		maxMonths = DefaultPolicy().MaxPayoffMonths
	}

	for month := 1; ; month++ {
		date := start.AddDate(0, month, 0)

		interest := make([]decimal.Decimal, len(debts))
		payment := make([]decimal.Decimal, len(debts))

		monthInterest := decimal.Zero
		minTotal := decimal.Zero
		freedMinimums := decimal.Zero

		for i, d := range debts {
			if !d.Balance.IsPositive() {
				freedMinimums = freedMinimums.Add(d.MinPayment)
				continue
			}
			interest[i] = MonthlyInterest(d.Balance, d.AnnualRate)
			monthInterest = monthInterest.Add(interest[i])

			// Minimum due, capped at the full payoff amount for the month.
			due := d.MinPayment
			if owed := d.Balance.Add(interest[i]); due.GreaterThan(owed) {
				due = owed
			}
			payment[i] = due
			minTotal = minTotal.Add(due)
		}

		pool := in.ExtraPayment.Add(freedMinimums)
		if in.MonthlyBudget.IsPositive() {
			pool = in.MonthlyBudget.Sub(minTotal)
			if pool.IsNegative() {
				pool = decimal.Zero
				sched.BudgetInsufficient = true
			}
		}

		// Direct the pool at the first active debt in order, cascading any
		// remainder once a target is fully retired this month.
		for i, d := range debts {
			if !pool.IsPositive() {
				break
			}
			if !d.Balance.IsPositive() {
				continue
			}
			room := d.Balance.Add(interest[i]).Sub(payment[i])
			if !room.IsPositive() {
				continue
			}
			applied := decimal.Min(pool, room)
			payment[i] = payment[i].Add(applied)
			pool = pool.Sub(applied)
		}

		monthPaid := decimal.Zero
		remaining := decimal.Zero
		for i := range debts {
			if !debts[i].Balance.IsPositive() {
				continue
			}
			monthPaid = monthPaid.Add(payment[i])
			newBalance := debts[i].Balance.Add(interest[i]).Sub(payment[i])
			if newBalance.IsNegative() {
				newBalance = decimal.Zero
			}
			if newBalance.IsZero() {
				sched.Payoffs = append(sched.Payoffs, PayoffEvent{MonthIndex: month, Date: date, Name: debts[i].Name})
			}
			debts[i].Balance = newBalance
			remaining = remaining.Add(newBalance)
		}

		sched.TotalInterestPaid = sched.TotalInterestPaid.Add(monthInterest)
		sched.Months = append(sched.Months, MonthRecord{
			MonthIndex:      month,
			Date:            date,
			TotalBalance:    remaining,
			InterestAccrued: monthInterest,
			PrincipalPaid:   monthPaid.Sub(monthInterest),
			TotalPaid:       monthPaid,
		})

		if remaining.IsZero() {
			sched.PayoffMonth = month
			sched.DebtFreeDate = date
			return sched, nil
		}
		if month >= maxMonths {
			sched.PayoffMonth = month
			sched.DebtFreeDate = date
			sched.Incomplete = true
			return sched, nil
		}
	}
}

// ComparePoint aligns both strategies' remaining balances for one month.
type ComparePoint struct {
	MonthIndex       int             `json:"month_index"`
	Date             time.Time       `json:"date"`
	SnowballBalance  decimal.Decimal `json:"snowball_balance"`
	AvalancheBalance decimal.Decimal `json:"avalanche_balance"`
}

// Comparison is the side-by-side result of both strategies on one input.
type Comparison struct {
	Snowball  Schedule `json:"snowball"`
	Avalanche Schedule `json:"avalanche"`

	// InterestSaved is snowball interest minus avalanche interest; avalanche
	// is optimal by construction so this is never negative.
	InterestSaved decimal.Decimal `json:"interest_saved"`
	MonthsSaved   int             `json:"months_saved"`

	Series []ComparePoint `json:"series"`
}

// CompareStrategies runs both orderings on identical input and reports the
// avalanche advantage.
func CompareStrategies(liabilities []models.Liability, extraPayment decimal.Decimal, start time.Time, pol Policy) (Comparison, error) {
	snowball, err := SimulatePayoff(PayoffInput{
		Liabilities:  liabilities,
		ExtraPayment: extraPayment,
		Strategy:     StrategySnowball,
		Start:        start,
	}, pol)
	if err != nil {
		return Comparison{}, err
	}
	avalanche, err := SimulatePayoff(PayoffInput{
		Liabilities:  liabilities,
		ExtraPayment: extraPayment,
		Strategy:     StrategyAvalanche,
		Start:        start,
	}, pol)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Snowball:      snowball,
		Avalanche:     avalanche,
		InterestSaved: snowball.TotalInterestPaid.Sub(avalanche.TotalInterestPaid),
		MonthsSaved:   snowball.PayoffMonth - avalanche.PayoffMonth,
	}

	months := len(snowball.Months)
	if len(avalanche.Months) > months {
		months = len(avalanche.Months)
	}
	for i := 0; i < months; i++ {
		p := ComparePoint{MonthIndex: i}
		if i < len(snowball.Months) {
			p.Date = snowball.Months[i].Date
			p.SnowballBalance = snowball.Months[i].TotalBalance
		}
		if i < len(avalanche.Months) {
			p.Date = avalanche.Months[i].Date
			p.AvalancheBalance = avalanche.Months[i].TotalBalance
		}
		cmp.Series = append(cmp.Series, p)
	}
	return cmp, nil
}

// monthStart normalizes a date to the first of its month; zero time means
// the current month in UTC.
func monthStart(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
