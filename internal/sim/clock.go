// Package sim advances the simulated vehicle once per clock tick.
//
// Step is a pure function of the previous state and a random source; Clock
// binds it to a seeded generator so a run can be replayed.
package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"torhmi/internal/types"
)

// Adaptive cruise control and drift constants.
const (
	ACCCloseGap = 40.0  // m, decelerate below this gap
	ACCOpenGap  = 100.0 // m, accelerate above this gap
	ACCDecel    = 2.0   // km/h per tick
	ACCAccel    = 1.0   // km/h per tick
	ACCMinSpeed = 20.0  // km/h floor while decelerating
	ACCMaxSpeed = 110.0 // km/h ceiling while accelerating

	autoGapDivisor   = 50.0 // gap closes by speed/50 per tick under ACC
	manualGapDivisor = 60.0 // gap closes by speed/60 per tick otherwise
	manualGapJitter  = 2.0  // non-negative gap jitter per manual tick
	laneJitter       = 0.05 // lane walk step spans +-0.025

	LeadResetThreshold = 10.0  // m
	LeadResetDistance  = 150.0 // m, a new lead vehicle appears

	EngageSpeed = 65.0 // km/h set when autopilot engages
	SpeedStep   = 10.0 // km/h per accel/brake press
)

// Random is the jitter source. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// StepOptions are policy switches for Step.
type StepOptions struct {
	// ClampLane bounds LanePosition to -1..1. When false the random walk is
	// unbounded.
	ClampLane bool
}

// Step returns the vehicle state one tick after prev.
func Step(prev types.VehicleState, rnd Random, opts StepOptions) types.VehicleState {
	next := prev

	if prev.Mode == types.ModeAutonomous {
		speed := prev.Speed
		switch {
		case prev.LeadDistance < ACCCloseGap:
			speed = math.Max(ACCMinSpeed, prev.Speed-ACCDecel)
		case prev.LeadDistance > ACCOpenGap:
			speed = math.Min(ACCMaxSpeed, prev.Speed+ACCAccel)
		}
		next.Speed = speed
		next.LeadDistance = prev.LeadDistance - speed/autoGapDivisor

		next.LanePosition = prev.LanePosition + (rnd.Float64()-0.5)*laneJitter
		if opts.ClampLane {
			next.LanePosition = math.Max(-1, math.Min(1, next.LanePosition))
		}
	} else {
		// MANUAL and TAKEOVER_REQUEST: speed only changes on driver input
		next.LeadDistance = prev.LeadDistance - prev.Speed/manualGapDivisor + rnd.Float64()*manualGapJitter
	}

	if next.LeadDistance < LeadResetThreshold {
		next.LeadDistance = LeadResetDistance
	}
	return next
}

// ClampSpeed limits s to [0, MaxSpeed].
func ClampSpeed(s float64) float64 {
	return math.Max(0, math.Min(types.MaxSpeed, s))
}

// AdjustSpeed applies a driver accel/brake input.
func AdjustSpeed(v types.VehicleState, delta float64) types.VehicleState {
	v.Speed = ClampSpeed(v.Speed + delta)
	return v
}

// Clock binds Step to a seeded generator and counts ticks.
type Clock struct {
	rng   *rand.Rand
	opts  StepOptions
	seed  uint64
	ticks uint64
}

// NewClock creates a clock. A zero seed is replaced by one derived from the
// current time; Seed reports the value in use.
func NewClock(seed uint64, opts StepOptions) *Clock {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Clock{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		opts: opts,
		seed: seed,
	}
}

// Advance steps v by one tick.
func (c *Clock) Advance(v types.VehicleState) types.VehicleState {
	c.ticks++
	return Step(v, c.rng, c.opts)
}

// Ticks returns how many times Advance has run.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Seed returns the generator seed.
func (c *Clock) Seed() uint64 {
	return c.seed
}
