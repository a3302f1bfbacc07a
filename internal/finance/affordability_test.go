package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessAffordability(t *testing.T) {
	pol := DefaultPolicy()

	tests := []struct {
		name     string
		cost     string
		liquid   string
		burn     string
		wantSafe bool
		wantRisk string
	}{
		{"comfortably affordable", "1000", "30000", "3000", true, RiskLow},
		{"eats into the cushion", "15000", "30000", "3000", true, RiskMedium},
		{"leaves under three months", "25000", "30000", "3000", false, RiskHigh},
		{"cannot afford it", "40000", "30000", "3000", false, RiskCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := AssessAffordability(dec(tt.cost), dec(tt.liquid), dec(tt.burn), pol)
			assert.Equal(t, tt.wantSafe, check.Safe)
			assert.Equal(t, tt.wantRisk, check.RiskLevel)
		})
	}
}

func TestAssessAffordabilityZeroBurn(t *testing.T) {
	check := AssessAffordability(dec("1000"), dec("5000"), dec("0"), DefaultPolicy())
	assert.True(t, check.Safe)
	assert.Equal(t, DefaultPolicy().RunwayCapDays, check.ImpactDays, "zero burn means capped runway, not a crash")
}
