package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ngerke/analysis-model/internal/config"
)

// LogLevelEnv overrides the level configured in the YAML file.
const LogLevelEnv = "ANALYSIS_LOG_LEVEL"

// NewLogger creates a new hclog.Logger named after the command, configured
// from the logger section of cfg. A nil cfg yields the defaults.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(loggerOptions(cfg, name, os.Stdout))
}

func loggerOptions(cfg *config.Config, name string, output io.Writer) *hclog.LoggerOptions {
	var settings config.Logger
	if cfg != nil {
		settings = cfg.Logger
	}

	return &hclog.LoggerOptions{
		Name:            name,
		Output:          output,
		DisableTime:     boolOr(settings.DisableTime, true),
		JSONFormat:      boolOr(settings.JSONFormat, false),
		IncludeLocation: boolOr(settings.IncludeLocation, false),
		Level:           determineLogLevel(settings.Level),
	}
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// determineLogLevel prefers the environment over the configured level and
// falls back to INFO when neither is set or the value is not a known level.
func determineLogLevel(configured string) hclog.Level {
	levelStr := configured
	if env := os.Getenv(LogLevelEnv); env != "" {
		levelStr = env
	}
	if strings.TrimSpace(levelStr) == "" {
		return hclog.Info
	}

	level := hclog.LevelFromString(levelStr)
	if level == hclog.NoLevel {
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      os.Stderr,
		}).Warn("Unrecognized log level, defaulting to INFO", "providedLevel", levelStr)
		return hclog.Info
	}
	return level
}
