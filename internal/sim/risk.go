package sim

import "torhmi/internal/types"

// Risk band thresholds on the advisory score.
const (
	RiskVisualWarning = 25.0 // T1: visual warning
	RiskMultiModalTOR = 60.0 // T2: multi-modal takeover request
)

// Assess scores takeover risk as
//
//	(Speed * Complexity) / (DriverReadiness + LeadDistance)
//
// and maps it onto a RiskLevel. The result is advisory; nothing transitions
// on it.
func Assess(v types.VehicleState, d types.DriverState, e types.EnvironmentState) types.RiskAssessment {
	denom := float64(d.ReadinessScore) + v.LeadDistance
	if denom < 1 {
		denom = 1
	}
	score := v.Speed * float64(e.Complexity) / denom

	level := types.RiskLow
	switch {
	case score >= RiskMultiModalTOR:
		level = types.RiskHigh
	case score >= RiskVisualWarning:
		level = types.RiskMedium
	}
	return types.RiskAssessment{Score: score, Level: level}
}
