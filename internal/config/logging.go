package config

import (
	"fmt"
	"strings"

	"torhmi/internal/logging"
)

// LoggingConfig controls the debug log files under .hmi/logs. With
// debug_mode off nothing is written.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	DebugMode  bool            `yaml:"debug_mode"` // master switch
	Categories map[string]bool `yaml:"categories"` // per-category toggles; unlisted = on
}

// Options converts the section into logging.Initialize options.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{
		DebugMode:  c.DebugMode,
		Level:      c.Level,
		Format:     c.Format,
		Categories: c.Categories,
	}
}

func (c LoggingConfig) validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", c.Format)
	}
	return nil
}
