package ui

import (
	"fmt"
	"math"
	"strings"

	"torhmi/internal/types"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Gauge thresholds from the instrument cluster.
const (
	SpeedRedline     = 120.0 // km/h, speed gauge turns red above
	DistanceWarning  = 30.0  // m, distance gauge turns amber below
	EyeAttentionLow  = 70    // %, DMS warning below
	DrowsinessHigh   = 40    // %, DMS warning above
	defaultGaugeSize = 20
)

// Gauge is a labelled horizontal meter.
type Gauge struct {
	Label string
	Unit  string
	Value float64
	Max   float64
	Color lipgloss.Color
}

// Fraction returns Value/Max clamped to 0..1.
func (g Gauge) Fraction() float64 {
	if g.Max <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, g.Value/g.Max))
}

// View renders the gauge width cells wide.
func (g Gauge) View(s Styles, width int) string {
	if width <= 0 {
		width = defaultGaugeSize
	}
	bar := progress.New(
		progress.WithSolidFill(string(g.Color)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	value := lipgloss.NewStyle().Foreground(g.Color).Bold(true).Render(fmt.Sprintf("%.0f", math.Round(g.Value)))

	var sb strings.Builder
	sb.WriteString(s.Label.Render(strings.ToUpper(g.Label)))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString(" ")
	sb.WriteString(s.Muted.Render(g.Unit))
	sb.WriteString("\n")
	sb.WriteString(bar.ViewAs(g.Fraction()))
	return sb.String()
}

// SpeedGauge returns the speed gauge for v.
func SpeedGauge(v types.VehicleState) Gauge {
	color := Info
	if v.Speed > SpeedRedline {
		color = Danger
	}
	return Gauge{Label: "Speed", Unit: "km/h", Value: v.Speed, Max: types.MaxSpeed, Color: color}
}

// DistanceGauge returns the lead-distance gauge for v.
func DistanceGauge(v types.VehicleState) Gauge {
	color := Success
	if v.LeadDistance < DistanceWarning {
		color = Warning
	}
	return Gauge{Label: "Distance", Unit: "meters", Value: v.LeadDistance, Max: types.MaxGaugeDistance, Color: color}
}

// EyeAttentionGauge returns the DMS eye-attention meter. The value turns
// red below EyeAttentionLow.
func EyeAttentionGauge(d types.DriverState) Gauge {
	color := Success
	if d.EyeAttention < EyeAttentionLow {
		color = Danger
	}
	return Gauge{Label: "Eye Attention", Unit: "%", Value: float64(d.EyeAttention), Max: types.MaxPercent, Color: color}
}

// DrowsinessGauge returns the DMS drowsiness meter. The value turns red
// above DrowsinessHigh.
func DrowsinessGauge(d types.DriverState) Gauge {
	color := Success
	if d.Drowsiness > DrowsinessHigh {
		color = Danger
	}
	return Gauge{Label: "Drowsiness Level", Unit: "%", Value: float64(d.Drowsiness), Max: types.MaxPercent, Color: color}
}
