package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"torhmi/internal/config"
	"torhmi/internal/logging"
	"torhmi/internal/reasoning"
	"torhmi/internal/session"
	"torhmi/internal/sim"
)

// resolveWorkspace returns the --workspace flag or the current directory.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}

// loadConfig loads the workspace config and applies global flag overrides.
func loadConfig(ws string) (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.Reasoning.APIKey = apiKey
	}
	if timeout > 0 {
		cfg.Reasoning.Timeout = timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging starts the category file loggers for ws.
func initLogging(ws string, cfg *config.Config) error {
	if err := logging.Initialize(ws, cfg.Logging.Options()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("torhmi %s starting in %s", cfg.Version, ws)
	return nil
}

// newReasoner builds the reasoning client selected by cfg.
func newReasoner(ctx context.Context, cfg *config.Config) (*reasoning.Reasoner, error) {
	explainer, err := reasoning.NewExplainer(ctx, cfg.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning client: %w", err)
	}
	return reasoning.NewReasoner(explainer, cfg.GetReasoningTimeout()), nil
}

// newController builds a session from cfg. ctx is the parent of every
// reasoning request.
func newController(ctx context.Context, cfg *config.Config, seed uint64) (*session.Controller, error) {
	reasoner, err := newReasoner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}

	opts := session.DefaultOptions()
	opts.Reasoner = reasoner
	opts.Clock = sim.NewClock(seed, sim.StepOptions{ClampLane: cfg.Simulation.ClampLane})
	opts.Vehicle = cfg.Simulation.Vehicle()
	opts.Driver = cfg.Driver.State()
	opts.Environment = cfg.Environment.State()
	opts.CancelOnExit = cfg.Reasoning.CancelOnExit
	opts.Context = ctx
	return session.NewController(opts), nil
}
