package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"torhmi/internal/types"
)

// ErrMalformed marks a payload that does not satisfy the explanation schema.
var ErrMalformed = errors.New("malformed explanation")

// wirePayload keeps every field optional so missing keys can be detected.
type wirePayload struct {
	Reason  *string  `json:"reason"`
	Urgency *float64 `json:"urgency"`
	Action  *string  `json:"action"`
}

// ParseExplanation decodes the JSON object returned by the service. The
// object must carry reason, urgency and action; urgency is rounded to the
// nearest integer.
func ParseExplanation(text string) (types.TakeoverExplanation, error) {
	body := stripMarkdownCodeFences(text)
	if strings.TrimSpace(body) == "" {
		return types.TakeoverExplanation{}, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	var p wirePayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return types.TakeoverExplanation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var missing []string
	if p.Reason == nil {
		missing = append(missing, "reason")
	}
	if p.Urgency == nil {
		missing = append(missing, "urgency")
	}
	if p.Action == nil {
		missing = append(missing, "action")
	}
	if len(missing) > 0 {
		return types.TakeoverExplanation{}, fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}

	exp := types.TakeoverExplanation{
		Reason:  *p.Reason,
		Urgency: int(math.Round(*p.Urgency)),
		Action:  *p.Action,
	}
	if err := Validate(exp); err != nil {
		return types.TakeoverExplanation{}, err
	}
	return exp, nil
}

// Validate checks the explanation invariants.
func Validate(exp types.TakeoverExplanation) error {
	if strings.TrimSpace(exp.Reason) == "" {
		return fmt.Errorf("%w: empty reason", ErrMalformed)
	}
	if strings.TrimSpace(exp.Action) == "" {
		return fmt.Errorf("%w: empty action", ErrMalformed)
	}
	if exp.Urgency < 1 || exp.Urgency > 10 {
		return fmt.Errorf("%w: urgency %d outside 1..10", ErrMalformed, exp.Urgency)
	}
	return nil
}

// stripMarkdownCodeFences removes ```json ... ``` wrapping some models add
// even in JSON mode.
func stripMarkdownCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return trimmed
	}
	lastFence := strings.LastIndex(trimmed, "```")
	if lastFence <= firstNewline {
		return trimmed
	}
	return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
}
