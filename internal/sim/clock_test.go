package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"torhmi/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func autonomous(speed, lead float64) types.VehicleState {
	return types.VehicleState{Speed: speed, LeadDistance: lead, Mode: types.ModeAutonomous, ACCActive: true}
}

func TestStep_ACCDeceleratesWithFloor(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		prev := autonomous(rng.Float64()*types.MaxSpeed, 10+rng.Float64()*29.9)
		next := Step(prev, rng, StepOptions{})

		assert.GreaterOrEqual(t, next.Speed, prev.Speed-ACCDecel, "prev=%+v", prev)
		assert.GreaterOrEqual(t, next.Speed, ACCMinSpeed, "prev=%+v", prev)
	}
}

func TestStep_ACCAcceleratesWithCeiling(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		prev := autonomous(rng.Float64()*types.MaxSpeed, 100.1+rng.Float64()*100)
		next := Step(prev, rng, StepOptions{})

		assert.LessOrEqual(t, next.Speed, prev.Speed+ACCAccel, "prev=%+v", prev)
		// A vehicle already above the ceiling is pulled down to it, never up
		assert.LessOrEqual(t, next.Speed, ACCMaxSpeed, "prev=%+v", prev)
	}
}

func TestStep_ACCHoldsSpeedInBand(t *testing.T) {
	next := Step(autonomous(72, 70), fixedRand(0.5), StepOptions{})
	assert.Equal(t, 72.0, next.Speed)
	assert.InDelta(t, 70-72.0/50, next.LeadDistance, 1e-9)
	assert.Equal(t, 0.0, next.LanePosition, "r=0.5 is a zero lane step")
}

func TestStep_ACCUsesNewSpeedForGap(t *testing.T) {
	next := Step(autonomous(50, 30), fixedRand(0.5), StepOptions{})
	require.Equal(t, 48.0, next.Speed)
	assert.InDelta(t, 30-48.0/50, next.LeadDistance, 1e-9)
}

func TestStep_LaneWalkBounds(t *testing.T) {
	lo := Step(autonomous(65, 70), fixedRand(0), StepOptions{})
	hi := Step(autonomous(65, 70), fixedRand(0.999999), StepOptions{})
	assert.InDelta(t, -0.025, lo.LanePosition, 1e-9)
	assert.InDelta(t, 0.025, hi.LanePosition, 1e-6)
}

func TestStep_LaneClampPolicy(t *testing.T) {
	prev := autonomous(65, 70)
	prev.LanePosition = 0.99

	free := Step(prev, fixedRand(0.999999), StepOptions{})
	assert.Greater(t, free.LanePosition, 1.0, "unclamped walk may leave -1..1")

	clamped := Step(prev, fixedRand(0.999999), StepOptions{ClampLane: true})
	assert.Equal(t, 1.0, clamped.LanePosition)
}

func TestStep_ManualGapDrift(t *testing.T) {
	for _, mode := range []types.DrivingMode{types.ModeManual, types.ModeTakeoverRequest} {
		prev := types.VehicleState{Speed: 120, LeadDistance: 90, Mode: mode, LanePosition: 0.3}

		low := Step(prev, fixedRand(0), StepOptions{})
		high := Step(prev, fixedRand(0.75), StepOptions{})

		assert.InDelta(t, 90-2.0, low.LeadDistance, 1e-9, mode)
		assert.InDelta(t, 90-2.0+1.5, high.LeadDistance, 1e-9, mode)
		assert.Equal(t, 120.0, low.Speed, "speed is driver controlled in %s", mode)
		assert.Equal(t, 0.3, low.LanePosition, "lane only walks under ACC")
	}
}

func TestStep_LeadResetInvariant(t *testing.T) {
	cases := []types.VehicleState{
		autonomous(110, 10.5),
		{Speed: 180, LeadDistance: 12, Mode: types.ModeManual},
		{Speed: 0, LeadDistance: 3, Mode: types.ModeTakeoverRequest},
	}
	for _, prev := range cases {
		next := Step(prev, fixedRand(0), StepOptions{})
		assert.Equal(t, LeadResetDistance, next.LeadDistance, "prev=%+v", prev)
		assert.Equal(t, prev.Mode, next.Mode)
	}

	// Repeated sub-threshold ticks keep landing on exactly 150
	v := types.VehicleState{Speed: 0, LeadDistance: 1, Mode: types.ModeManual}
	for i := 0; i < 5; i++ {
		v = Step(v, fixedRand(0), StepOptions{})
		v.LeadDistance = math.Min(v.LeadDistance, 5)
		v = Step(v, fixedRand(0), StepOptions{})
		require.Equal(t, LeadResetDistance, v.LeadDistance)
	}
}

func TestStep_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	modes := []types.DrivingMode{types.ModeManual, types.ModeAutonomous, types.ModeTakeoverRequest}
	for i := 0; i < 2000; i++ {
		prev := types.VehicleState{
			Speed:        rng.Float64() * types.MaxSpeed,
			LeadDistance: rng.Float64() * 200,
			Mode:         modes[rng.IntN(len(modes))],
		}
		next := Step(prev, rng, StepOptions{})

		require.True(t, next.Mode.Valid())
		require.GreaterOrEqual(t, next.LeadDistance, LeadResetThreshold, "prev=%+v next=%+v", prev, next)
		require.GreaterOrEqual(t, next.Speed, 0.0)
		require.LessOrEqual(t, next.Speed, types.MaxSpeed)
	}
}

func TestAdjustSpeedClamps(t *testing.T) {
	v := types.VehicleState{Speed: 175}
	for i := 0; i < 4; i++ {
		v = AdjustSpeed(v, SpeedStep)
		assert.LessOrEqual(t, v.Speed, types.MaxSpeed)
	}
	assert.Equal(t, 180.0, v.Speed)

	v.Speed = 5
	for i := 0; i < 4; i++ {
		v = AdjustSpeed(v, -SpeedStep)
		assert.GreaterOrEqual(t, v.Speed, 0.0)
	}
	assert.Equal(t, 0.0, v.Speed)
}

func TestClockReplaysWithSeed(t *testing.T) {
	a := NewClock(99, StepOptions{})
	b := NewClock(99, StepOptions{})

	va, vb := autonomous(65, 80), autonomous(65, 80)
	for i := 0; i < 50; i++ {
		va = a.Advance(va)
		vb = b.Advance(vb)
	}
	assert.Equal(t, va, vb)
	assert.Equal(t, uint64(50), a.Ticks())
	assert.Equal(t, uint64(99), a.Seed())

	assert.NotZero(t, NewClock(0, StepOptions{}).Seed())
}
