package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"torhmi/internal/logging"
	"torhmi/internal/render"
	"torhmi/internal/session"
	"torhmi/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type simulateOptions struct {
	duration time.Duration
	engageAt time.Duration
	failAt   time.Duration
	tick     time.Duration
	seed     uint64
	frames   bool
}

var simOpts simulateOptions

// scriptStep is one scripted command, relative to the start of the run.
type scriptStep struct {
	at  time.Duration
	cmd session.Command
}

// buildScript orders the scripted commands. Steps at zero or beyond the run
// duration are skipped.
func buildScript(opts simulateOptions) []scriptStep {
	var steps []scriptStep
	if opts.engageAt > 0 && opts.engageAt < opts.duration {
		steps = append(steps, scriptStep{at: opts.engageAt, cmd: session.CmdEngage})
	}
	if opts.failAt > 0 && opts.failAt < opts.duration {
		steps = append(steps, scriptStep{at: opts.failAt, cmd: session.CmdFailure})
	}
	slices.SortStableFunc(steps, func(a, b scriptStep) int {
		return int(a.at - b.at)
	})
	return steps
}

// runSimulate runs a headless session: the loop, the script and the
// observer share one errgroup and stop together when the duration elapses.
func runSimulate(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}
	if err := initLogging(ws, cfg); err != nil {
		return err
	}
	defer logging.CloseAll()

	if simOpts.duration <= 0 {
		return fmt.Errorf("--duration must be positive")
	}
	interval := simOpts.tick
	if interval <= 0 {
		interval = cfg.GetTickInterval()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, simOpts.duration)
	defer cancel()

	ctrl, err := newController(ctx, cfg, simOpts.seed)
	if err != nil {
		return err
	}
	loop := session.NewLoop(ctrl, interval)
	script := buildScript(simOpts)
	out := cmd.OutOrStdout()

	logger.Info("Starting headless simulation",
		zap.String("workspace", ws),
		zap.String("provider", cfg.Reasoning.Provider),
		zap.Duration("duration", simOpts.duration),
		zap.Duration("tick", interval),
		zap.Int("steps", len(script)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		return runScript(gctx, loop, script)
	})
	g.Go(func() error {
		return observe(gctx, loop, interval, observeOptions{frames: simOpts.frames, cols: cfg.UX.CanvasWidth}, out)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printSummary(out, loop.Latest(), loop.Rejected())
	return nil
}

// runScript submits each step at its offset from the start of the run.
func runScript(ctx context.Context, loop *session.Loop, steps []scriptStep) error {
	start := time.Now()
	for _, step := range steps {
		timer := time.NewTimer(time.Until(start.Add(step.at)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := loop.Submit(ctx, step.cmd); err != nil {
			return nil
		}
		logger.Debug("Scripted command submitted", zap.String("command", step.cmd.Name), zap.Duration("at", step.at))
	}
	return nil
}

type observeOptions struct {
	frames bool
	cols   int
}

// observe samples the published state once per interval and writes one
// status line per sample, plus mode changes, new explanations and
// optionally the rasterized road. It is the only writer to out.
func observe(ctx context.Context, loop *session.Loop, interval time.Duration, opts observeOptions, out io.Writer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cols := opts.cols
	if cols <= 0 {
		cols = render.DefaultCols
	}
	rows := render.RowsFor(render.DefaultViewport, cols)

	var (
		scroller render.Scroller
		mode     = loop.Latest().Vehicle.Mode
		shown    *types.TakeoverExplanation
		start    = time.Now()
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s := loop.Latest()
		elapsed := time.Since(start).Round(time.Millisecond)

		if s.Vehicle.Mode != mode {
			fmt.Fprintf(out, "[%8s] mode %s -> %s\n", elapsed, mode, s.Vehicle.Mode)
			mode = s.Vehicle.Mode
		}
		if s.Explanation != nil && (shown == nil || *shown != *s.Explanation) {
			fmt.Fprintf(out, "[%8s] explanation (fallback=%t): %s\n", elapsed, s.Fallback, formatExplanation(*s.Explanation))
			shown = s.Explanation
		}

		if opts.frames {
			f := render.Project(s.Vehicle, scroller.Advance(s.Vehicle.Speed), render.DefaultViewport)
			fmt.Fprintln(out, render.Rasterize(f, cols, rows).String())
		}
		fmt.Fprintf(out, "[%8s] tick=%d mode=%s speed=%.0f lead=%.1f lane=%+.3f risk=%.1f(%s)%s\n",
			elapsed, s.Ticks, s.Vehicle.Mode.Short(), s.Vehicle.Speed, s.Vehicle.LeadDistance,
			s.Vehicle.LanePosition, s.Risk.Score, s.Risk.Level, thinkingSuffix(s))
	}
}

func thinkingSuffix(s session.State) string {
	if s.Thinking {
		return " thinking"
	}
	return ""
}

func formatExplanation(e types.TakeoverExplanation) string {
	return fmt.Sprintf("%q urgency=%d/10 action=%q", e.Reason, e.Urgency, e.Action)
}

// printSummary writes the final state of the run.
func printSummary(out io.Writer, s session.State, rejected int64) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Simulation finished after %d ticks\n", s.Ticks)
	fmt.Fprintf(out, "  Mode:      %s\n", s.Vehicle.Mode)
	fmt.Fprintf(out, "  Speed:     %.0f km/h\n", s.Vehicle.Speed)
	fmt.Fprintf(out, "  Lead:      %.1f m\n", s.Vehicle.LeadDistance)
	fmt.Fprintf(out, "  Risk:      %.1f (%s)\n", s.Risk.Score, s.Risk.Level)
	fmt.Fprintf(out, "  Rejected:  %d commands\n", rejected)
	if s.Thinking {
		fmt.Fprintf(out, "  Reasoning: request %s still in flight\n", s.RequestID)
	}
	if s.Explanation != nil {
		fmt.Fprintf(out, "  Reason:    %s\n", s.Explanation.Reason)
		fmt.Fprintf(out, "  Urgency:   %d/10\n", s.Explanation.Urgency)
		fmt.Fprintf(out, "  Action:    %s\n", s.Explanation.Action)
		if s.Fallback {
			fmt.Fprintln(out, "  (fallback explanation)")
		}
	}
}
