package models

import "time"

// Snapshot is the complete view of a user's financial state at a point in
// time. It is the read-only input to every simulation; the engine never
// mutates it.
type Snapshot struct {
	TakenAt     time.Time          `json:"taken_at"`
	Assets      []Asset            `json:"assets"`
	Liabilities []Liability        `json:"liabilities"`
	Income      []IncomeSource     `json:"income"`
	Plan        []SpendingCategory `json:"plan"`
}
