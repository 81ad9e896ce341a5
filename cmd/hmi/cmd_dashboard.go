package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"torhmi/cmd/hmi/dashboard"
	"torhmi/internal/config"
	"torhmi/internal/logging"

	"github.com/spf13/cobra"
)

// commandContext returns the command's context, or Background when the
// command was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runDashboard starts the interactive takeover dashboard.
func runDashboard(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctrl, err := newController(ctx, cfg, 0)
	if err != nil {
		return err
	}

	opts := dashboard.Options{Config: cfg, Controller: ctrl}
	if w, stop := startWatcher(ctx, config.DefaultPath(ws)); w != nil {
		opts.Watcher = w
		opts.StopWatcher = stop
	}

	return dashboard.Run(opts)
}

// startWatcher watches the config file if it exists. It returns nil when
// there is nothing to watch or the watch could not be started.
func startWatcher(ctx context.Context, path string) (*config.Watcher, context.CancelFunc) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		logging.ConfigWarn("config watcher unavailable: %v", err)
		return nil, nil
	}
	wctx, stop := context.WithCancel(ctx)
	if err := w.Start(wctx); err != nil {
		stop()
		logging.ConfigWarn("failed to watch %s: %v", path, err)
		return nil, nil
	}
	return w, stop
}
