package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"torhmi/internal/logging"
	"torhmi/internal/sim"
	"torhmi/internal/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type explainOptions struct {
	speed float64
	lead  float64
	mode  string
	json  bool
}

var explainOpts explainOptions

// explainReport is the JSON output of the explain command.
type explainReport struct {
	Snapshot    types.Snapshot            `json:"snapshot"`
	Explanation types.TakeoverExplanation `json:"explanation"`
	Fallback    bool                      `json:"fallback"`
	Cause       string                    `json:"cause,omitempty"`
	LatencyMS   int64                     `json:"latency_ms"`
}

// explainSnapshot builds the snapshot the explain command sends.
func explainSnapshot(v types.VehicleState, d types.DriverState, e types.EnvironmentState) types.Snapshot {
	return types.Snapshot{
		RequestID:   uuid.NewString(),
		CapturedAt:  time.Now(),
		Vehicle:     v,
		Driver:      d,
		Environment: e,
		Risk:        sim.Assess(v, d, e),
	}
}

// runExplain sends one takeover snapshot to the reasoning service.
func runExplain(cmd *cobra.Command, args []string) error {
	mode := types.DrivingMode(strings.ToUpper(strings.TrimSpace(explainOpts.mode)))
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want MANUAL, AUTONOMOUS or TAKEOVER_REQUEST)", explainOpts.mode)
	}
	if explainOpts.lead < 0 {
		return fmt.Errorf("--lead must not be negative")
	}

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

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reasoner, err := newReasoner(ctx, cfg)
	if err != nil {
		return err
	}

	v := cfg.Simulation.Vehicle()
	v.Speed = sim.ClampSpeed(explainOpts.speed)
	v.LeadDistance = explainOpts.lead
	v.Mode = mode
	v.ACCActive = mode == types.ModeAutonomous
	snap := explainSnapshot(v, cfg.Driver.State(), cfg.Environment.State())

	logger.Info("Requesting takeover explanation",
		zap.String("request_id", snap.RequestID),
		zap.String("provider", cfg.Reasoning.Provider),
		zap.String("model", cfg.Reasoning.Model),
		zap.Float64("risk", snap.Risk.Score))

	res := reasoner.Explain(ctx, snap)
	if res.Fallback {
		logger.Warn("Reasoning fell back", zap.Error(res.Cause))
	}

	out := cmd.OutOrStdout()
	if explainOpts.json {
		report := explainReport{
			Snapshot:    snap,
			Explanation: res.Explanation,
			Fallback:    res.Fallback,
			LatencyMS:   res.Latency.Milliseconds(),
		}
		if res.Cause != nil {
			report.Cause = res.Cause.Error()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Takeover at %.0f km/h, lead %.1f m, mode %s\n", v.Speed, v.LeadDistance, v.Mode)
	fmt.Fprintf(out, "Risk:    %.1f (%s)\n", snap.Risk.Score, snap.Risk.Level)
	fmt.Fprintf(out, "Reason:  %s\n", res.Explanation.Reason)
	fmt.Fprintf(out, "Urgency: %d/10\n", res.Explanation.Urgency)
	fmt.Fprintf(out, "Action:  %s\n", res.Explanation.Action)
	if res.Fallback {
		fmt.Fprintf(out, "(fallback: %v)\n", res.Cause)
	}
	return nil
}
