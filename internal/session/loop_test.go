package session

import (
	"context"
	"testing"
	"time"

	"torhmi/internal/reasoning"
	"torhmi/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_DrivesController(t *testing.T) {
	want := types.TakeoverExplanation{Reason: "Lane markings lost", Urgency: 8, Action: "Steer manually"}
	c := newTestController(t, reasoning.ExplainerFunc(func(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
		return want, nil
	}))
	loop := NewLoop(c, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.NoError(t, loop.Submit(ctx, CmdEngage))
	require.Eventually(t, func() bool {
		return loop.Latest().Vehicle.Mode == types.ModeAutonomous
	}, time.Second, time.Millisecond)

	require.NoError(t, loop.Submit(ctx, CmdFailure))
	require.Eventually(t, func() bool {
		s := loop.Latest()
		return s.Vehicle.Mode == types.ModeTakeoverRequest && s.Explanation != nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, want, *loop.Latest().Explanation)

	require.NoError(t, loop.Submit(ctx, CmdToggleMode))
	require.Eventually(t, func() bool { return loop.Rejected() == 1 }, time.Second, time.Millisecond)

	require.Eventually(t, func() bool { return loop.Latest().Ticks > 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoop_SubmitHonoursContext(t *testing.T) {
	c := newTestController(t, nil)
	loop := NewLoop(c, time.Hour)

	for i := 0; i < cap(loop.commands); i++ {
		require.NoError(t, loop.Submit(context.Background(), CmdAdjustSpeed(10)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, loop.Submit(ctx, CmdAdjustSpeed(10)), context.Canceled)
	assert.Equal(t, types.ModeManual, loop.Latest().Vehicle.Mode)
}
