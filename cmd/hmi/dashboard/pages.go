package dashboard

import (
	"fmt"
	"strings"

	"torhmi/internal/reasoning"
	"torhmi/internal/sim"

	"github.com/charmbracelet/glamour"
)

// helpMarkdown lists every key binding as a markdown table per group.
func helpMarkdown(k keyMap) string {
	titles := []string{"Vehicle", "Driver Monitoring", "Environment", "Navigation"}

	var sb strings.Builder
	sb.WriteString("# Keyboard\n\n")
	for i, group := range k.FullHelp() {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", titles[i])
		for _, b := range group {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Autopilot cannot be toggled during a takeover request; press `m` to take manual control.\n")
	return sb.String()
}

// logicMarkdown describes the three-stage takeover decision logic.
func logicMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Safety & Decision Logic\n\n")
	sb.WriteString("The algorithmic framework for determining takeover urgency.\n\n")

	sb.WriteString("## Stage 1: Observation\n\n")
	sb.WriteString("The system monitors **Driver Readiness (R)** and **Environment Complexity (C)**. ")
	sb.WriteString("Readiness reflects gaze, hand presence and reaction history; in this simulator it is set by the operator.\n\n")

	sb.WriteString("## Stage 2: Risk Scoring\n\n")
	sb.WriteString("```\nUrgency = (Speed * Complexity) / (DriverReadiness + DistanceLead)\n```\n\n")
	fmt.Fprintf(&sb, "If urgency exceeds **T1 = %.0f**, a visual warning is shown. ", sim.RiskVisualWarning)
	fmt.Fprintf(&sb, "Above **T2 = %.0f** a multi-modal takeover request is advised. ", sim.RiskMultiModalTOR)
	sb.WriteString("The score is advisory: takeovers are only raised explicitly.\n\n")

	sb.WriteString("## Stage 3: Handoff Execution\n\n")
	sb.WriteString("Hands-on-wheel and gaze-at-road are verified before autonomous actuators are released. ")
	sb.WriteString("The reasoning engine explains the takeover to reduce the driver's cognitive load. ")
	fmt.Fprintf(&sb, "When it is unreachable the driver sees: *%s* (urgency %d/10, action **%s**).\n",
		reasoning.FallbackReason, reasoning.FallbackUrgency, reasoning.FallbackAction)
	return sb.String()
}

// newRenderer creates a markdown renderer for the theme and width.
func newRenderer(dark bool, width int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders md, falling back to the raw text.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
