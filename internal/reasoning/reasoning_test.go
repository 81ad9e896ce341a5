package reasoning

import (
	"context"
	"errors"
	"testing"
	"time"

	"torhmi/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() types.Snapshot {
	return types.Snapshot{
		RequestID:   "req-1",
		CapturedAt:  time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		Vehicle:     types.VehicleState{Speed: 65, LeadDistance: 42.5, Mode: types.ModeAutonomous, ACCActive: true},
		Driver:      types.InitialDriver(),
		Environment: types.InitialEnvironment(),
		Risk:        types.RiskAssessment{Score: 7.3, Level: types.RiskLow},
	}
}

func TestReasoner_PassesThroughValidExplanation(t *testing.T) {
	want := types.TakeoverExplanation{Reason: "X", Urgency: 7, Action: "Y"}
	r := NewReasoner(ExplainerFunc(func(ctx context.Context, snap types.Snapshot) (types.TakeoverExplanation, error) {
		assert.Equal(t, "req-1", snap.RequestID)
		return want, nil
	}), time.Second)

	res := r.Explain(context.Background(), sampleSnapshot())
	assert.Equal(t, want, res.Explanation)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.Cause)
}

func TestReasoner_FallbackOnFailure(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name      string
		explainer Explainer
		cause     error
	}{
		{
			name: "transport error",
			explainer: ExplainerFunc(func(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
				return types.TakeoverExplanation{}, boom
			}),
			cause: boom,
		},
		{
			name: "urgency out of range",
			explainer: ExplainerFunc(func(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
				return types.TakeoverExplanation{Reason: "r", Urgency: 11, Action: "a"}, nil
			}),
			cause: ErrMalformed,
		},
		{
			name:      "unavailable",
			explainer: Unavailable{Why: "test"},
			cause:     ErrUnavailable,
		},
		{
			name: "panic",
			explainer: ExplainerFunc(func(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
				panic("nil map")
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewReasoner(tt.explainer, time.Second).Explain(context.Background(), sampleSnapshot())

			assert.Equal(t, Fallback(), res.Explanation)
			assert.True(t, res.Fallback)
			require.Error(t, res.Cause)
			if tt.cause != nil {
				assert.ErrorIs(t, res.Cause, tt.cause)
			}
		})
	}
}

func TestReasoner_TimeoutYieldsFallback(t *testing.T) {
	r := NewReasoner(ExplainerFunc(func(ctx context.Context, _ types.Snapshot) (types.TakeoverExplanation, error) {
		<-ctx.Done()
		return types.TakeoverExplanation{}, ctx.Err()
	}), 20*time.Millisecond)

	res := r.Explain(context.Background(), sampleSnapshot())
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, res.Latency, 20*time.Millisecond)
}

func TestReasoner_NilExplainer(t *testing.T) {
	res := NewReasoner(nil, 0).Explain(context.Background(), sampleSnapshot())
	assert.True(t, res.Fallback)
}

func TestFallbackTriple(t *testing.T) {
	fb := Fallback()
	assert.Equal(t, "System limits reached. Immediate manual intervention required for safety.", fb.Reason)
	assert.Equal(t, 10, fb.Urgency)
	assert.Equal(t, "GRAB STEERING WHEEL NOW", fb.Action)
}
