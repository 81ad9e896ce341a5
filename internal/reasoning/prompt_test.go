package reasoning

import (
	"strings"
	"testing"
)

func TestBuildPromptCarriesSnapshot(t *testing.T) {
	prompt := BuildPrompt(sampleSnapshot())

	for _, want := range []string{
		"- Mode: AUTONOMOUS",
		"- Speed: 65 km/h",
		"- Distance to lead vehicle: 42.5m",
		"- Readiness: 98/100",
		"- Drowsiness: 5%",
		"- Hands on wheel: true",
		"- Complexity: 20%",
		"- Traffic: LOW",
		"- Weather: CLEAR",
		"Advisory risk score: 7.3 (LOW)",
		`"reason", "urgency" (1-10), and "action"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
