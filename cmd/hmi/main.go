package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hmi",
	Short: "torhmi - context-aware takeover HMI simulator",
	Long: `torhmi simulates the handoff between an autonomous driving system and
its driver. It models the vehicle, driver monitoring and environment, animates
a live road feed, and on a takeover request asks a generative reasoning
service why the driver must take control.

Run without arguments to start the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The dashboard owns the terminal; it logs to files only
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

// simulateCmd runs a scripted session without the dashboard
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted headless session",
	Long: `Runs the simulation clock without a terminal UI and drives a script:
engage autopilot, then raise a takeover request, then print the explanation.

Example:
  hmi simulate --duration 15s --engage-at 2s --fail-at 6s --frames`,
	RunE: runSimulate,
}

// explainCmd asks the reasoning service once
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Request one takeover explanation for the configured presets",
	Long: `Builds a snapshot from the configured driver and environment presets and
the given vehicle state, sends it to the reasoning service, and prints the
explanation. Service failures print the fallback explanation.`,
	RunE: runExplain,
}

// configCmd manages the workspace config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the workspace configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to .hmi/config.yaml",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE:  runVersion,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Reasoning request timeout (default: reasoning.timeout)")

	// Simulate flags
	simulateCmd.Flags().DurationVar(&simOpts.duration, "duration", 20*time.Second, "Total run time")
	simulateCmd.Flags().DurationVar(&simOpts.engageAt, "engage-at", 2*time.Second, "Engage autopilot after this delay (0 = never)")
	simulateCmd.Flags().DurationVar(&simOpts.failAt, "fail-at", 8*time.Second, "Raise a takeover request after this delay (0 = never)")
	simulateCmd.Flags().DurationVar(&simOpts.tick, "tick", 0, "Clock period (default: simulation.tick_interval)")
	simulateCmd.Flags().Uint64Var(&simOpts.seed, "seed", 0, "Jitter seed (default: simulation.seed)")
	simulateCmd.Flags().BoolVar(&simOpts.frames, "frames", false, "Print the road canvas every tick")

	// Explain flags
	explainCmd.Flags().Float64Var(&explainOpts.speed, "speed", 65, "Vehicle speed in km/h")
	explainCmd.Flags().Float64Var(&explainOpts.lead, "lead", 35, "Distance to the lead vehicle in metres")
	explainCmd.Flags().StringVar(&explainOpts.mode, "mode", "AUTONOMOUS", "Driving mode when the takeover is raised")
	explainCmd.Flags().BoolVar(&explainOpts.json, "json", false, "Print the explanation as JSON")

	// Config subcommands
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	// Add commands to root
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
