package main

import (
	"fmt"
	"os"

	"torhmi/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configForce bool

const redacted = "********"

// runConfigInit writes the default config into the workspace.
func runConfigInit(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	path := config.DefaultPath(ws)

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	logger.Info("Wrote default config", zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	return nil
}

// runConfigShow prints the effective config with secrets redacted.
func runConfigShow(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.Reasoning.APIKey != "" {
		shown.Reasoning.APIKey = redacted
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", config.DefaultPath(ws))
	_, err = out.Write(data)
	return err
}

// runVersion prints the configured name and version.
func runVersion(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.Name, cfg.Version)
	return nil
}
