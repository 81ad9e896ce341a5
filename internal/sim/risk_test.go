package sim

import (
	"testing"

	"torhmi/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name    string
		vehicle types.VehicleState
		driver  types.DriverState
		env     types.EnvironmentState
		score   float64
		level   types.RiskLevel
	}{
		{
			name:    "stationary",
			vehicle: types.VehicleState{Speed: 0, LeadDistance: 80},
			driver:  types.InitialDriver(),
			env:     types.InitialEnvironment(),
			score:   0,
			level:   types.RiskLow,
		},
		{
			name:    "cruise on a quiet road",
			vehicle: types.VehicleState{Speed: 65, LeadDistance: 82},
			driver:  types.DriverState{ReadinessScore: 98},
			env:     types.EnvironmentState{Complexity: 20},
			score:   65.0 * 20 / 180,
			level:   types.RiskLow,
		},
		{
			name:    "busy road, distracted driver",
			vehicle: types.VehicleState{Speed: 100, LeadDistance: 50},
			driver:  types.DriverState{ReadinessScore: 50},
			env:     types.EnvironmentState{Complexity: 30},
			score:   30,
			level:   types.RiskMedium,
		},
		{
			name:    "fast, complex, close",
			vehicle: types.VehicleState{Speed: 110, LeadDistance: 20},
			driver:  types.DriverState{ReadinessScore: 20},
			env:     types.EnvironmentState{Complexity: 80},
			score:   220,
			level:   types.RiskHigh,
		},
		{
			name:    "zero denominator guarded",
			vehicle: types.VehicleState{Speed: 10, LeadDistance: 0},
			driver:  types.DriverState{ReadinessScore: 0},
			env:     types.EnvironmentState{Complexity: 10},
			score:   100,
			level:   types.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.vehicle, tt.driver, tt.env)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, tt.level, got.Level)
		})
	}
}
