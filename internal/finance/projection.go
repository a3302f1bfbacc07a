package finance

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionPoint is one month of a projected net-worth trajectory.
type ProjectionPoint struct {
	MonthIndex int             `json:"month_index"`
	Date       time.Time       `json:"date"`
	Value      decimal.Decimal `json:"value"`
}

// Series is a fully materialized projection.
type Series struct {
	Points     []ProjectionPoint `json:"points"`
	FinalValue decimal.Decimal   `json:"final_value"`
}

// Projection is a deterministic fixed-rate compounding plan:
//
//	value[i] = value[i-1] * (1 + rate/12) + contribution, value[0] = start.
//
// The same formula serves zero and negative rates; nothing is special-cased.
// A Projection holds no mutable state, so Points can be iterated any number
// of times and always replays the identical sequence.
type Projection struct {
	StartValue          decimal.Decimal
	MonthlyContribution decimal.Decimal
	AnnualRate          decimal.Decimal
	HorizonMonths       int
	Start               time.Time
}

// NewProjection validates the horizon and anchors the series at the current
// month. Start value and rate are unconstrained: a negative rate is a
// declining scenario, a negative start is an underwater net worth.
func NewProjection(start, monthlyContribution, annualRate decimal.Decimal, horizonMonths int) (*Projection, error) {
	if horizonMonths <= 0 {
		return nil, &ValidationError{Field: "horizon_months", Reason: "must be a positive integer"}
	}
	return &Projection{
		StartValue:          start,
		MonthlyContribution: monthlyContribution,
		AnnualRate:          annualRate,
		HorizonMonths:       horizonMonths,
		Start:               monthStart(time.Time{}),
	}, nil
}

// StartingAt re-anchors the projection's calendar dates. The trajectory
// itself is unchanged.
func (p *Projection) StartingAt(t time.Time) *Projection {
	p.Start = monthStart(t)
	return p
}

// Points lazily yields months 0 through HorizonMonths inclusive. The
// sequence is finite and restartable.
func (p *Projection) Points() iter.Seq[ProjectionPoint] {
	return func(yield func(ProjectionPoint) bool) {
		value := p.StartValue
		for i := 0; i <= p.HorizonMonths; i++ {
			if i > 0 {
				value = CompoundStep(value, p.AnnualRate, p.MonthlyContribution)
			}
			point := ProjectionPoint{
				MonthIndex: i,
				Date:       p.Start.AddDate(0, i, 0),
				Value:      value,
			}
			if !yield(point) {
				return
			}
		}
	}
}

// Run materializes the full series.
func (p *Projection) Run() Series {
	s := Series{Points: make([]ProjectionPoint, 0, p.HorizonMonths+1)}
	for point := range p.Points() {
		s.Points = append(s.Points, point)
	}
	s.FinalValue = s.Points[len(s.Points)-1].Value
	return s
}
