package types

import "time"

// =============================================================================
// SESSION STATE RECORDS
// =============================================================================

// Speed and distance limits shared by the clock, the controller and the gauges.
const (
	MaxSpeed         = 180.0 // km/h
	MaxGaugeDistance = 200.0 // m, gauge scale only
	MaxPercent       = 100
)

// VehicleState is the ego vehicle as seen by the HMI.
type VehicleState struct {
	Speed         float64     `json:"speed"`          // km/h, 0..180
	LeadDistance  float64     `json:"lead_distance"`  // m to the lead vehicle
	SteeringAngle float64     `json:"steering_angle"` // placeholder, never simulated
	Mode          DrivingMode `json:"mode"`
	ACCActive     bool        `json:"acc_active"`
	LanePosition  float64     `json:"lane_position"` // nominal -1..1 offset from lane center
}

// DriverState holds the driver monitoring signals. All fields are user-set;
// ReadinessScore is not derived from the others.
type DriverState struct {
	EyeAttention   int  `json:"eye_attention"` // 0..100
	Drowsiness     int  `json:"drowsiness"`    // 0..100
	HandsOnWheel   bool `json:"hands_on_wheel"`
	ReadinessScore int  `json:"readiness_score"` // 0..100
}

// EnvironmentState is the static environment model.
type EnvironmentState struct {
	Complexity     int            `json:"complexity"` // 0..100
	Weather        Weather        `json:"weather"`
	TrafficDensity TrafficDensity `json:"traffic_density"`
}

// TakeoverExplanation is the human-readable justification shown during a TOR.
type TakeoverExplanation struct {
	Reason  string `json:"reason"`
	Urgency int    `json:"urgency"` // 1..10
	Action  string `json:"action"`
}

// Snapshot is an immutable read of the session captured when a reasoning
// request is issued.
type Snapshot struct {
	RequestID   string           `json:"request_id"`
	CapturedAt  time.Time        `json:"captured_at"`
	Vehicle     VehicleState     `json:"vehicle"`
	Driver      DriverState      `json:"driver"`
	Environment EnvironmentState `json:"environment"`
	Risk        RiskAssessment   `json:"risk"`
}

// RiskAssessment is the advisory score derived from the current state.
type RiskAssessment struct {
	Score float64   `json:"score"`
	Level RiskLevel `json:"level"`
}

// InitialVehicle is the vehicle at the start of a run.
func InitialVehicle() VehicleState {
	return VehicleState{
		Speed:        0,
		LeadDistance: 80,
		Mode:         ModeManual,
	}
}

// InitialDriver is an attentive driver with hands on the wheel.
func InitialDriver() DriverState {
	return DriverState{
		EyeAttention:   95,
		Drowsiness:     5,
		HandsOnWheel:   true,
		ReadinessScore: 98,
	}
}

// InitialEnvironment is a clear, low-traffic, low-complexity road.
func InitialEnvironment() EnvironmentState {
	return EnvironmentState{
		Complexity:     20,
		Weather:        WeatherClear,
		TrafficDensity: TrafficLow,
	}
}

// ClampPercent limits v to the 0..100 slider range.
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}
