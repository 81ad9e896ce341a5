// Package session owns the HMI session: vehicle, driver and environment
// state, the driving mode, and the single in-flight reasoning request.
//
// A Controller is not safe for concurrent use. Exactly one goroutine (the
// dashboard update loop or a Loop) calls its methods; the reasoning call
// runs on its own goroutine and reports back through Results.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"torhmi/internal/logging"
	"torhmi/internal/reasoning"
	"torhmi/internal/sim"
	"torhmi/internal/types"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition is returned when an event is not allowed in the
	// current mode.
	ErrInvalidTransition = errors.New("invalid mode transition")

	// ErrReasoningInFlight is returned when a takeover is requested while a
	// previous reasoning request has not resolved.
	ErrReasoningInFlight = errors.New("reasoning request already in flight")
)

// Outcome is the result of one reasoning request, tagged with its ID.
type Outcome struct {
	RequestID string
	Snapshot  types.Snapshot
	Result    reasoning.Result
}

// State is a copy of the session for readers.
type State struct {
	Vehicle     types.VehicleState
	Driver      types.DriverState
	Environment types.EnvironmentState
	Risk        types.RiskAssessment

	// Explanation is nil until a reasoning outcome lands during a takeover.
	Explanation *types.TakeoverExplanation
	Fallback    bool // Explanation is the fixed fallback

	Thinking  bool   // a reasoning request is in flight
	RequestID string // ID of the in-flight request, if any
	Ticks     uint64
}

// Options configures a Controller.
type Options struct {
	Reasoner    *reasoning.Reasoner
	Clock       *sim.Clock
	Vehicle     types.VehicleState
	Driver      types.DriverState
	Environment types.EnvironmentState

	// CancelOnExit cancels the in-flight reasoning call when the driver
	// leaves the takeover. The outcome still arrives and is discarded.
	CancelOnExit bool

	// Context is the parent of every reasoning call. Defaults to
	// context.Background.
	Context context.Context

	// SessionID tags the audit trail. Defaults to a random UUID.
	SessionID string

	NewID func() string
	Now   func() time.Time
}

// DefaultOptions returns options for a fresh session with no reasoning
// service configured.
func DefaultOptions() Options {
	return Options{
		Vehicle:     types.InitialVehicle(),
		Driver:      types.InitialDriver(),
		Environment: types.InitialEnvironment(),
	}
}

// Controller is the mode and takeover state machine.
type Controller struct {
	vehicle     types.VehicleState
	driver      types.DriverState
	environment types.EnvironmentState

	explanation *types.TakeoverExplanation
	fallback    bool

	inFlight  bool
	pendingID string
	cancel    context.CancelFunc

	clock        *sim.Clock
	reasoner     *reasoning.Reasoner
	cancelOnExit bool
	parent       context.Context
	newID        func() string
	now          func() time.Time

	audit     *logging.AuditLogger
	closeOnce sync.Once

	results chan Outcome
	wg      sync.WaitGroup
}

// NewController creates a controller from opts.
func NewController(opts Options) *Controller {
	if !opts.Vehicle.Mode.Valid() {
		opts.Vehicle.Mode = types.ModeManual
	}
	if opts.Clock == nil {
		opts.Clock = sim.NewClock(0, sim.StepOptions{})
	}
	if opts.Reasoner == nil {
		opts.Reasoner = reasoning.NewReasoner(nil, 0)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	c := &Controller{
		vehicle:      opts.Vehicle,
		driver:       opts.Driver,
		environment:  opts.Environment,
		clock:        opts.Clock,
		reasoner:     opts.Reasoner,
		cancelOnExit: opts.CancelOnExit,
		parent:       opts.Context,
		newID:        opts.NewID,
		now:          opts.Now,
		audit:        logging.AuditWithSession(opts.SessionID),
		results:      make(chan Outcome, 1),
	}
	c.vehicle.ACCActive = c.vehicle.Mode == types.ModeAutonomous

	logging.Session("Session created: mode=%s speed=%.0f seed=%d", c.vehicle.Mode, c.vehicle.Speed, c.clock.Seed())
	c.audit.SessionStart(string(c.vehicle.Mode), c.clock.Seed())
	return c
}

// =============================================================================
// MODE TRANSITIONS
// =============================================================================

// Mode returns the current driving mode.
func (c *Controller) Mode() types.DrivingMode {
	return c.vehicle.Mode
}

// EngageAutopilot moves MANUAL to AUTONOMOUS at the engage speed and clears
// any previous explanation.
func (c *Controller) EngageAutopilot() error {
	if c.vehicle.Mode != types.ModeManual {
		return c.reject("engage autopilot")
	}
	c.setMode(types.ModeAutonomous, "engage autopilot")
	c.vehicle.Speed = sim.EngageSpeed
	c.explanation = nil
	c.fallback = false
	logging.Session("Autopilot engaged at %.0f km/h", c.vehicle.Speed)
	return nil
}

// ManualOverride hands control back to the driver. From AUTONOMOUS the
// explanation is cleared; from TAKEOVER_REQUEST it stays visible. This is
// the only way out of a takeover.
func (c *Controller) ManualOverride() error {
	switch c.vehicle.Mode {
	case types.ModeAutonomous:
		c.explanation = nil
		c.fallback = false
	case types.ModeTakeoverRequest:
		if c.cancelOnExit && c.cancel != nil {
			logging.SessionDebug("Cancelling reasoning request %s on takeover exit", c.pendingID)
			c.cancel()
		}
	default:
		return c.reject("manual override")
	}
	prev := c.vehicle.Mode
	c.setMode(types.ModeManual, "manual override")
	logging.Session("Manual override from %s", prev)
	return nil
}

// ToggleMode is the engage button: it engages from MANUAL and overrides
// from AUTONOMOUS. It is rejected during a takeover.
func (c *Controller) ToggleMode() error {
	switch c.vehicle.Mode {
	case types.ModeManual:
		return c.EngageAutopilot()
	case types.ModeAutonomous:
		return c.ManualOverride()
	default:
		return c.reject("toggle mode")
	}
}

// SimulateFailure raises a takeover request. It captures a snapshot of the
// state before the transition and dispatches one reasoning request whose
// outcome arrives on Results. It returns the request ID.
func (c *Controller) SimulateFailure() (string, error) {
	if c.vehicle.Mode == types.ModeTakeoverRequest {
		return "", c.reject("simulate failure")
	}
	if c.inFlight {
		logging.SessionWarn("Takeover rejected: request %s still in flight", c.pendingID)
		c.audit.Rejected(string(c.vehicle.Mode), "simulate failure", ErrReasoningInFlight.Error())
		return "", ErrReasoningInFlight
	}

	snap := c.Snapshot()
	prev := c.vehicle.Mode

	c.setMode(types.ModeTakeoverRequest, "simulate failure")
	c.explanation = nil
	c.fallback = false
	c.inFlight = true
	c.pendingID = snap.RequestID

	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel

	logging.Session("Takeover requested from %s: request=%s risk=%.1f(%s)", prev, snap.RequestID, snap.Risk.Score, snap.Risk.Level)
	c.audit.Takeover(snap.RequestID, string(prev), snap.Risk.Score, string(snap.Risk.Level))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res := c.reasoner.Explain(ctx, snap)
		// Capacity 1 and a single in-flight request: never blocks.
		c.results <- Outcome{RequestID: snap.RequestID, Snapshot: snap, Result: res}
	}()

	return snap.RequestID, nil
}

// Results delivers reasoning outcomes. The owner feeds each one to Resolve.
func (c *Controller) Results() <-chan Outcome {
	return c.results
}

// Resolve consumes a reasoning outcome. Outcomes for a request other than
// the pending one are ignored and Resolve reports false. The explanation is
// kept only if the session is still in a takeover.
func (c *Controller) Resolve(o Outcome) bool {
	if !c.inFlight || o.RequestID != c.pendingID {
		logging.SessionDebug("Ignoring stale reasoning outcome %s", o.RequestID)
		c.audit.ReasoningDropped(o.RequestID, "stale request")
		return false
	}

	c.inFlight = false
	c.pendingID = ""
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if c.vehicle.Mode != types.ModeTakeoverRequest {
		logging.Session("Reasoning outcome %s arrived after takeover exit; discarded", o.RequestID)
		c.audit.ReasoningDropped(o.RequestID, "takeover already exited")
		return true
	}

	exp := o.Result.Explanation
	c.explanation = &exp
	c.fallback = o.Result.Fallback
	logging.Session("Explanation stored: request=%s urgency=%d fallback=%t latency=%s",
		o.RequestID, exp.Urgency, o.Result.Fallback, o.Result.Latency)
	var cause string
	if o.Result.Cause != nil {
		cause = o.Result.Cause.Error()
	}
	c.audit.ReasoningResolved(o.RequestID, exp.Urgency, o.Result.Fallback, o.Result.Latency.Milliseconds(), cause)
	return true
}

// Close cancels any in-flight request and waits for its goroutine.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.closeOnce.Do(func() {
		c.audit.SessionEnd(string(c.vehicle.Mode), c.clock.Ticks())
	})
}

func (c *Controller) setMode(m types.DrivingMode, action string) {
	c.audit.ModeChange(string(c.vehicle.Mode), string(m), action)
	c.vehicle.Mode = m
	c.vehicle.ACCActive = m == types.ModeAutonomous
}

func (c *Controller) reject(event string) error {
	logging.SessionDebug("Rejected %s in %s", event, c.vehicle.Mode)
	c.audit.Rejected(string(c.vehicle.Mode), event, ErrInvalidTransition.Error())
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, event, c.vehicle.Mode)
}

// =============================================================================
// CLOCK AND USER INPUT
// =============================================================================

// Tick advances the simulation by one clock period.
func (c *Controller) Tick() {
	c.vehicle = c.clock.Advance(c.vehicle)
}

// AdjustSpeed applies an accelerate or brake step. Allowed in every mode.
func (c *Controller) AdjustSpeed(delta float64) {
	c.vehicle = sim.AdjustSpeed(c.vehicle, delta)
}

// SetEyeAttention sets the eye-attention slider.
func (c *Controller) SetEyeAttention(v int) {
	c.driver.EyeAttention = types.ClampPercent(v)
}

// SetDrowsiness sets the drowsiness slider.
func (c *Controller) SetDrowsiness(v int) {
	c.driver.Drowsiness = types.ClampPercent(v)
}

// SetReadiness sets the readiness score.
func (c *Controller) SetReadiness(v int) {
	c.driver.ReadinessScore = types.ClampPercent(v)
}

// ToggleHandsOnWheel flips the hands-on-wheel sensor.
func (c *Controller) ToggleHandsOnWheel() {
	c.driver.HandsOnWheel = !c.driver.HandsOnWheel
}

// SetComplexity sets the environment complexity slider.
func (c *Controller) SetComplexity(v int) {
	c.environment.Complexity = types.ClampPercent(v)
}

// CycleWeather steps CLEAR, RAIN, FOG.
func (c *Controller) CycleWeather() {
	c.environment.Weather = c.environment.Weather.Next()
}

// CycleTraffic steps LOW, MEDIUM, HIGH.
func (c *Controller) CycleTraffic() {
	c.environment.TrafficDensity = c.environment.TrafficDensity.Next()
}

// ApplyDriver replaces the driver state, clamping every slider.
func (c *Controller) ApplyDriver(d types.DriverState) {
	c.driver = types.DriverState{
		EyeAttention:   types.ClampPercent(d.EyeAttention),
		Drowsiness:     types.ClampPercent(d.Drowsiness),
		HandsOnWheel:   d.HandsOnWheel,
		ReadinessScore: types.ClampPercent(d.ReadinessScore),
	}
}

// ApplyEnvironment replaces the environment state. Unknown weather or
// traffic values keep the current ones.
func (c *Controller) ApplyEnvironment(e types.EnvironmentState) {
	c.environment.Complexity = types.ClampPercent(e.Complexity)
	if w, ok := types.ParseWeather(string(e.Weather)); ok {
		c.environment.Weather = w
	}
	if t, ok := types.ParseTrafficDensity(string(e.TrafficDensity)); ok {
		c.environment.TrafficDensity = t
	}
}

// =============================================================================
// READS
// =============================================================================

// Snapshot captures the current state under a fresh request ID.
func (c *Controller) Snapshot() types.Snapshot {
	return types.Snapshot{
		RequestID:   c.newID(),
		CapturedAt:  c.now(),
		Vehicle:     c.vehicle,
		Driver:      c.driver,
		Environment: c.environment,
		Risk:        sim.Assess(c.vehicle, c.driver, c.environment),
	}
}

// State returns a copy of the session.
func (c *Controller) State() State {
	s := State{
		Vehicle:     c.vehicle,
		Driver:      c.driver,
		Environment: c.environment,
		Risk:        sim.Assess(c.vehicle, c.driver, c.environment),
		Fallback:    c.fallback,
		Thinking:    c.inFlight,
		RequestID:   c.pendingID,
		Ticks:       c.clock.Ticks(),
	}
	if c.explanation != nil {
		exp := *c.explanation
		s.Explanation = &exp
	}
	return s
}
