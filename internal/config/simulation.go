package config

import (
	"fmt"

	"torhmi/internal/types"
)

// SimulationConfig configures the simulation clock and the render loop.
type SimulationConfig struct {
	TickInterval  string `yaml:"tick_interval"`  // clock period, default 1s
	FrameInterval string `yaml:"frame_interval"` // render period, default 33ms

	// Seed for the lane/lead jitter. 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`

	// ClampLane bounds the lane-keeping random walk to -1..1.
	// Off by default: the walk drifts freely, as the HMI always modeled it.
	ClampLane bool `yaml:"clamp_lane"`

	InitialSpeed        float64 `yaml:"initial_speed"`
	InitialLeadDistance float64 `yaml:"initial_lead_distance"`
}

// DefaultSimulationConfig returns a 1 Hz clock and ~30 fps render loop.
func DefaultSimulationConfig() SimulationConfig {
	v := types.InitialVehicle()
	return SimulationConfig{
		TickInterval:        "1s",
		FrameInterval:       "33ms",
		InitialSpeed:        v.Speed,
		InitialLeadDistance: v.LeadDistance,
	}
}

// Vehicle returns the configured starting vehicle.
func (s SimulationConfig) Vehicle() types.VehicleState {
	v := types.InitialVehicle()
	v.Speed = s.InitialSpeed
	v.LeadDistance = s.InitialLeadDistance
	return v
}

// DriverPreset seeds the driver monitoring sliders.
type DriverPreset struct {
	EyeAttention   int  `yaml:"eye_attention"`
	Drowsiness     int  `yaml:"drowsiness"`
	HandsOnWheel   bool `yaml:"hands_on_wheel"`
	ReadinessScore int  `yaml:"readiness_score"`
}

// DefaultDriverPreset returns an attentive driver.
func DefaultDriverPreset() DriverPreset {
	d := types.InitialDriver()
	return DriverPreset{
		EyeAttention:   d.EyeAttention,
		Drowsiness:     d.Drowsiness,
		HandsOnWheel:   d.HandsOnWheel,
		ReadinessScore: d.ReadinessScore,
	}
}

// State converts the preset into a clamped DriverState.
func (p DriverPreset) State() types.DriverState {
	return types.DriverState{
		EyeAttention:   types.ClampPercent(p.EyeAttention),
		Drowsiness:     types.ClampPercent(p.Drowsiness),
		HandsOnWheel:   p.HandsOnWheel,
		ReadinessScore: types.ClampPercent(p.ReadinessScore),
	}
}

// EnvironmentPreset seeds the environment model.
type EnvironmentPreset struct {
	Complexity     int    `yaml:"complexity"`
	Weather        string `yaml:"weather"`
	TrafficDensity string `yaml:"traffic_density"`
}

// DefaultEnvironmentPreset returns a clear, low-traffic road.
func DefaultEnvironmentPreset() EnvironmentPreset {
	e := types.InitialEnvironment()
	return EnvironmentPreset{
		Complexity:     e.Complexity,
		Weather:        string(e.Weather),
		TrafficDensity: string(e.TrafficDensity),
	}
}

func (p EnvironmentPreset) validate() error {
	if _, ok := types.ParseWeather(p.Weather); !ok {
		return fmt.Errorf("environment.weather %q is not one of CLEAR, RAIN, FOG", p.Weather)
	}
	if _, ok := types.ParseTrafficDensity(p.TrafficDensity); !ok {
		return fmt.Errorf("environment.traffic_density %q is not one of LOW, MEDIUM, HIGH", p.TrafficDensity)
	}
	return nil
}

// State converts the preset into an EnvironmentState. Unknown enum values
// fall back to the defaults; Validate reports them.
func (p EnvironmentPreset) State() types.EnvironmentState {
	env := types.InitialEnvironment()
	env.Complexity = types.ClampPercent(p.Complexity)
	if w, ok := types.ParseWeather(p.Weather); ok {
		env.Weather = w
	}
	if t, ok := types.ParseTrafficDensity(p.TrafficDensity); ok {
		env.TrafficDensity = t
	}
	return env
}
