// Package config loads and watches the torhmi workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace directory holding config and debug logs.
const DirName = ".hmi"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// Config holds all torhmi configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Simulation clock and initial vehicle
	Simulation SimulationConfig `yaml:"simulation"`

	// Driver monitoring and environment presets
	Driver      DriverPreset      `yaml:"driver"`
	Environment EnvironmentPreset `yaml:"environment"`

	// Takeover reasoning service
	Reasoning ReasoningConfig `yaml:"reasoning"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal presentation
	UX UXConfig `yaml:"ux"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "torhmi",
		Version: "0.3.0",

		Simulation:  DefaultSimulationConfig(),
		Driver:      DefaultDriverPreset(),
		Environment: DefaultEnvironmentPreset(),
		Reasoning:   DefaultReasoningConfig(),

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			DebugMode: false,
		},

		UX: UXConfig{
			Theme:       ThemeAuto,
			CanvasWidth: 40,
		},
	}
}

// DefaultPath returns the config path for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, DirName, FileName)
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults plus environment when there is no file yet
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides lets the environment supply secrets and quick toggles.
func (c *Config) applyEnvOverrides() {
	// API key, lowest priority first
	if key := os.Getenv("API_KEY"); key != "" {
		c.Reasoning.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Reasoning.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Reasoning.APIKey = key
	}

	if model := os.Getenv("HMI_REASONING_MODEL"); model != "" {
		c.Reasoning.Model = model
	}
	if url := os.Getenv("HMI_REASONING_URL"); url != "" {
		c.Reasoning.BaseURL = url
	}

	if os.Getenv("HMI_DARK_MODE") == "1" {
		c.UX.Theme = ThemeDark
	}
	if os.Getenv("HMI_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// Validate checks that the configuration can drive a session.
// A missing API key is not an error: every takeover then resolves to the
// fallback explanation.
func (c *Config) Validate() error {
	var problems []string

	if d, err := parseDuration(c.Simulation.TickInterval); err != nil || d <= 0 {
		problems = append(problems, fmt.Sprintf("simulation.tick_interval %q is not a positive duration", c.Simulation.TickInterval))
	}
	if d, err := parseDuration(c.Simulation.FrameInterval); err != nil || d <= 0 {
		problems = append(problems, fmt.Sprintf("simulation.frame_interval %q is not a positive duration", c.Simulation.FrameInterval))
	}
	if c.Simulation.InitialSpeed < 0 || c.Simulation.InitialSpeed > 180 {
		problems = append(problems, fmt.Sprintf("simulation.initial_speed %.1f outside 0..180", c.Simulation.InitialSpeed))
	}
	if c.Simulation.InitialLeadDistance < 0 {
		problems = append(problems, "simulation.initial_lead_distance must not be negative")
	}
	if err := c.Environment.validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.Logging.validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Reasoning.Provider != "" && c.Reasoning.Provider != ProviderGemini && c.Reasoning.Provider != ProviderOffline {
		problems = append(problems, fmt.Sprintf("reasoning.provider %q is not one of gemini, offline", c.Reasoning.Provider))
	}
	if d, err := parseDuration(c.Reasoning.Timeout); err != nil || d <= 0 {
		problems = append(problems, fmt.Sprintf("reasoning.timeout %q is not a positive duration", c.Reasoning.Timeout))
	}
	switch c.UX.Theme {
	case "", ThemeAuto, ThemeDark, ThemeLight:
	default:
		problems = append(problems, fmt.Sprintf("ux.theme %q is not one of auto, dark, light", c.UX.Theme))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GetTickInterval returns the simulation clock period.
func (c *Config) GetTickInterval() time.Duration {
	return durationOr(c.Simulation.TickInterval, time.Second)
}

// GetFrameInterval returns the render loop period.
func (c *Config) GetFrameInterval() time.Duration {
	return durationOr(c.Simulation.FrameInterval, 33*time.Millisecond)
}

// GetReasoningTimeout returns the per-request deadline for the reasoning call.
func (c *Config) GetReasoningTimeout() time.Duration {
	return durationOr(c.Reasoning.Timeout, 30*time.Second)
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(s))
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := parseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
