// Package ui provides the visual styling for the torhmi dashboard.
// Uses a slate/blue instrument palette with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"torhmi/internal/config"
	"torhmi/internal/types"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#f8fafc") // slate-50
	LightForeground = lipgloss.Color("#0f172a") // slate-900
	LightPrimary    = lipgloss.Color("#2563eb") // blue-600
	LightMuted      = lipgloss.Color("#64748b") // slate-500
	LightBorder     = lipgloss.Color("#cbd5e1") // slate-300
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#020617") // slate-950
	DarkForeground = lipgloss.Color("#e2e8f0") // slate-200
	DarkPrimary    = lipgloss.Color("#60a5fa") // blue-400
	DarkMuted      = lipgloss.Color("#64748b") // slate-500
	DarkBorder     = lipgloss.Color("#334155") // slate-700
	DarkCard       = lipgloss.Color("#1e293b") // slate-800

	// Semantic Colors (same in both modes)
	Danger  = lipgloss.Color("#ef4444") // red-500
	Success = lipgloss.Color("#10b981") // emerald-500
	Warning = lipgloss.Color("#f59e0b") // amber-500
	Info    = lipgloss.Color("#3b82f6") // blue-500
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor resolves a ux.theme setting. "auto" falls back to DetectTheme.
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.ThemeDark:
		return DarkTheme()
	case config.ThemeLight:
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects based on the terminal. The road canvas is dark,
// so dark is the default.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; indices 7 and 9-15 are light.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bgIdx == 7 || bgIdx >= 9 {
				return LightTheme()
			}
		}
	}

	if os.Getenv("HMI_DARK_MODE") == "0" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style

	// Text
	PanelTitle lipgloss.Style
	Label      lipgloss.Style
	Body       lipgloss.Style
	Muted      lipgloss.Style
	Bold       lipgloss.Style
	Quote      lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Urgency lipgloss.Style
	Action  lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Quote: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Italic(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Urgency: lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true),

		Action: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Key: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// ModeBadge renders the driving mode as a colored badge.
func (s Styles) ModeBadge(m types.DrivingMode) string {
	bg := Success
	switch m {
	case types.ModeAutonomous:
		bg = Info
	case types.ModeTakeoverRequest:
		bg = Danger
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true).
		Padding(0, 1).
		Render(m.Short())
}

// RiskBadge renders the advisory risk level.
func (s Styles) RiskBadge(r types.RiskAssessment) string {
	style := s.Success
	switch r.Level {
	case types.RiskMedium:
		style = s.Warning
	case types.RiskHigh:
		style = s.Error
	}
	return style.Render(string(r.Level))
}
