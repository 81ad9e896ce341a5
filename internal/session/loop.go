package session

import (
	"context"
	"sync/atomic"
	"time"

	"torhmi/internal/logging"
)

// Command is a named mutation applied by the loop goroutine.
type Command struct {
	Name  string
	Apply func(c *Controller) error
}

// Common commands.
var (
	CmdEngage         = Command{Name: "engage", Apply: (*Controller).EngageAutopilot}
	CmdManualOverride = Command{Name: "manual_override", Apply: (*Controller).ManualOverride}
	CmdToggleMode     = Command{Name: "toggle_mode", Apply: (*Controller).ToggleMode}
	CmdFailure        = Command{Name: "simulate_failure", Apply: func(c *Controller) error {
		_, err := c.SimulateFailure()
		return err
	}}
)

// CmdAdjustSpeed returns a command that applies an accelerate or brake step.
func CmdAdjustSpeed(delta float64) Command {
	return Command{Name: "adjust_speed", Apply: func(c *Controller) error {
		c.AdjustSpeed(delta)
		return nil
	}}
}

// Loop drives a Controller without a terminal UI. It owns the controller:
// clock ticks, submitted commands and reasoning outcomes are all handled on
// the goroutine running Run.
type Loop struct {
	ctrl     *Controller
	interval time.Duration
	commands chan Command
	latest   atomic.Pointer[State]
	rejected atomic.Int64
}

// NewLoop creates a loop ticking ctrl every interval.
func NewLoop(ctrl *Controller, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	l := &Loop{
		ctrl:     ctrl,
		interval: interval,
		commands: make(chan Command, 16),
	}
	l.publish()
	return l
}

// Submit queues cmd for the loop goroutine.
func (l *Loop) Submit(ctx context.Context, cmd Command) error {
	select {
	case l.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latest returns the most recently published state. Safe from any goroutine.
func (l *Loop) Latest() State {
	return *l.latest.Load()
}

// Rejected counts commands the controller refused.
func (l *Loop) Rejected() int64 {
	return l.rejected.Load()
}

// Run processes events until ctx is done, then closes the controller. A
// done context is a normal stop and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.ctrl.Close()

	logging.Sim("Headless loop started: interval=%s", l.interval)

	for {
		select {
		case <-ctx.Done():
			logging.Sim("Headless loop stopped after %d ticks", l.ctrl.State().Ticks)
			return nil

		case <-ticker.C:
			l.ctrl.Tick()

		case o := <-l.ctrl.Results():
			l.ctrl.Resolve(o)

		case cmd := <-l.commands:
			if err := cmd.Apply(l.ctrl); err != nil {
				l.rejected.Add(1)
				logging.SessionDebug("Command %s rejected: %v", cmd.Name, err)
			}
		}
		l.publish()
	}
}

func (l *Loop) publish() {
	s := l.ctrl.State()
	l.latest.Store(&s)
}
