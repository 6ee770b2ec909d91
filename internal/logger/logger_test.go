package logger

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/ngerke/analysis-model/internal/config"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  hclog.Level
	}{
		{name: "default", want: hclog.Info},
		{name: "from config", level: "debug", want: hclog.Debug},
		{name: "env wins", env: "error", level: "debug", want: hclog.Error},
		{name: "unknown", level: "loud", want: hclog.Info},
		{name: "unknown env", env: "loud", level: "debug", want: hclog.Info},
		{name: "trace", env: "TRACE", want: hclog.Trace},
		{name: "warn", level: " Warn ", want: hclog.Warn},
		{name: "off", level: "off", want: hclog.Off},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.env)
			assert.Equal(t, tt.want, determineLogLevel(tt.level))
		})
	}
}

func TestLoggerOptionsDefaults(t *testing.T) {
	t.Setenv(LogLevelEnv, "")

	for _, cfg := range []*config.Config{nil, {}} {
		opts := loggerOptions(cfg, "summary", &bytes.Buffer{})

		assert.Equal(t, "summary", opts.Name)
		assert.True(t, opts.DisableTime)
		assert.False(t, opts.JSONFormat)
		assert.False(t, opts.IncludeLocation)
		assert.Equal(t, hclog.Info, opts.Level)
	}
}

func TestLoggerOptionsFromConfig(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	enabled, disabled := true, false
	cfg := &config.Config{Logger: config.Logger{
		Level:           "warn",
		DisableTime:     &disabled,
		JSONFormat:      &enabled,
		IncludeLocation: &enabled,
	}}

	opts := loggerOptions(cfg, "summary", &bytes.Buffer{})

	assert.False(t, opts.DisableTime)
	assert.True(t, opts.JSONFormat)
	assert.True(t, opts.IncludeLocation)
	assert.Equal(t, hclog.Warn, opts.Level)
}

func TestNewLoggerJSONFormat(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	enabled := true
	cfg := &config.Config{Logger: config.Logger{JSONFormat: &enabled}}

	var buf bytes.Buffer
	lg := hclog.New(loggerOptions(cfg, "summary", &buf))
	lg.Info("merged findings", "count", 3)

	assert.Contains(t, buf.String(), `"@message":"merged findings"`)
	assert.Contains(t, buf.String(), `"count":3`)
	assert.Contains(t, buf.String(), `"@module":"summary"`)
}
