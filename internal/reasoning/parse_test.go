package reasoning

import (
	"testing"

	"torhmi/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExplanation_WellFormed(t *testing.T) {
	got, err := ParseExplanation(`{"reason":"X","urgency":7,"action":"Y"}`)
	require.NoError(t, err)
	assert.Equal(t, types.TakeoverExplanation{Reason: "X", Urgency: 7, Action: "Y"}, got)
}

func TestParseExplanation_Variants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.TakeoverExplanation
		wantErr bool
	}{
		{
			name:  "fenced json",
			input: "```json\n{\"reason\":\"Fog ahead\",\"urgency\":8,\"action\":\"Take the wheel\"}\n```",
			want:  types.TakeoverExplanation{Reason: "Fog ahead", Urgency: 8, Action: "Take the wheel"},
		},
		{
			name:  "fractional urgency rounds",
			input: `{"reason":"r","urgency":6.6,"action":"a"}`,
			want:  types.TakeoverExplanation{Reason: "r", Urgency: 7, Action: "a"},
		},
		{
			name:  "extra keys ignored",
			input: `{"reason":"r","urgency":1,"action":"a","confidence":0.9}`,
			want:  types.TakeoverExplanation{Reason: "r", Urgency: 1, Action: "a"},
		},
		{name: "empty", input: "  ", wantErr: true},
		{name: "not json", input: "Please take over.", wantErr: true},
		{name: "missing action", input: `{"reason":"r","urgency":5}`, wantErr: true},
		{name: "missing urgency", input: `{"reason":"r","action":"a"}`, wantErr: true},
		{name: "urgency as string", input: `{"reason":"r","urgency":"high","action":"a"}`, wantErr: true},
		{name: "urgency zero", input: `{"reason":"r","urgency":0,"action":"a"}`, wantErr: true},
		{name: "urgency above ten", input: `{"reason":"r","urgency":12,"action":"a"}`, wantErr: true},
		{name: "blank reason", input: `{"reason":" ","urgency":5,"action":"a"}`, wantErr: true},
		{name: "array", input: `[{"reason":"r","urgency":5,"action":"a"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExplanation(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
