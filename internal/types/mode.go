// Package types defines the vehicle, driver and environment records shared
// by the simulation, the session controller and the renderers.
package types

import "strings"

// =============================================================================
// DRIVING MODES AND ENUMERATIONS
// =============================================================================

// DrivingMode is the control authority the vehicle is currently under.
type DrivingMode string

const (
	ModeManual          DrivingMode = "MANUAL"           // Driver has control (initial state)
	ModeAutonomous      DrivingMode = "AUTONOMOUS"       // ACC and lane keeping engaged
	ModeTakeoverRequest DrivingMode = "TAKEOVER_REQUEST" // System demands manual intervention
)

// Valid reports whether m is one of the three driving modes.
func (m DrivingMode) Valid() bool {
	switch m {
	case ModeManual, ModeAutonomous, ModeTakeoverRequest:
		return true
	}
	return false
}

// Short returns the abbreviated label used on the dashboard badge.
func (m DrivingMode) Short() string {
	switch m {
	case ModeManual:
		return "MANUAL"
	case ModeAutonomous:
		return "AUTO"
	case ModeTakeoverRequest:
		return "TOR"
	default:
		return "UNKNOWN"
	}
}

// Weather is the coarse weather condition of the environment model.
type Weather string

const (
	WeatherClear Weather = "CLEAR"
	WeatherRain  Weather = "RAIN"
	WeatherFog   Weather = "FOG"
)

var weatherOrder = []Weather{WeatherClear, WeatherRain, WeatherFog}

// Next returns the following weather value, wrapping around.
func (w Weather) Next() Weather {
	return cycle(weatherOrder, w)
}

// ParseWeather parses a weather name case-insensitively.
func ParseWeather(s string) (Weather, bool) {
	w := Weather(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range weatherOrder {
		if w == known {
			return w, true
		}
	}
	return "", false
}

// TrafficDensity is the coarse traffic level of the environment model.
type TrafficDensity string

const (
	TrafficLow    TrafficDensity = "LOW"
	TrafficMedium TrafficDensity = "MEDIUM"
	TrafficHigh   TrafficDensity = "HIGH"
)

var trafficOrder = []TrafficDensity{TrafficLow, TrafficMedium, TrafficHigh}

// Next returns the following traffic density, wrapping around.
func (t TrafficDensity) Next() TrafficDensity {
	return cycle(trafficOrder, t)
}

// ParseTrafficDensity parses a traffic density name case-insensitively.
func ParseTrafficDensity(s string) (TrafficDensity, bool) {
	t := TrafficDensity(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range trafficOrder {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// RiskLevel is the advisory takeover risk band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM" // visual warning band
	RiskHigh   RiskLevel = "HIGH"   // multi-modal TOR band
)

func cycle[T comparable](order []T, cur T) T {
	for i, v := range order {
		if v == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
