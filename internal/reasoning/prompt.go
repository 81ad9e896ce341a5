package reasoning

import (
	"fmt"
	"strings"

	"torhmi/internal/types"
)

const systemInstruction = "You are the reasoning engine of a context-aware driver HMI. " +
	"Explain takeover requests to the driver in one or two calm, concrete sentences. " +
	"Respond only with the requested JSON object."

// BuildPrompt renders the takeover context sent to the model.
func BuildPrompt(snap types.Snapshot) string {
	v, d, e := snap.Vehicle, snap.Driver, snap.Environment

	var sb strings.Builder
	sb.WriteString("Context-Aware HMI Reasoning Engine:\n")
	sb.WriteString("A Takeover Request (TOR) has been triggered in an autonomous vehicle.\n\n")

	sb.WriteString("Vehicle State:\n")
	fmt.Fprintf(&sb, "- Mode: %s\n", v.Mode)
	fmt.Fprintf(&sb, "- Speed: %.0f km/h\n", v.Speed)
	fmt.Fprintf(&sb, "- Distance to lead vehicle: %.1fm\n\n", v.LeadDistance)

	sb.WriteString("Driver State:\n")
	fmt.Fprintf(&sb, "- Readiness: %d/100\n", d.ReadinessScore)
	fmt.Fprintf(&sb, "- Drowsiness: %d%%\n", d.Drowsiness)
	fmt.Fprintf(&sb, "- Eye attention: %d%%\n", d.EyeAttention)
	fmt.Fprintf(&sb, "- Hands on wheel: %t\n\n", d.HandsOnWheel)

	sb.WriteString("Environment:\n")
	fmt.Fprintf(&sb, "- Complexity: %d%%\n", e.Complexity)
	fmt.Fprintf(&sb, "- Traffic: %s\n", e.TrafficDensity)
	fmt.Fprintf(&sb, "- Weather: %s\n\n", e.Weather)

	if snap.Risk.Level != "" {
		fmt.Fprintf(&sb, "Advisory risk score: %.1f (%s)\n\n", snap.Risk.Score, snap.Risk.Level)
	}

	sb.WriteString("Task: Provide a concise, professional explanation for why the driver must take control.\n")
	sb.WriteString(`Format the response as JSON with "reason", "urgency" (1-10), and "action" keys.`)
	return sb.String()
}
