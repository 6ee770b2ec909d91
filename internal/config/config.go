package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/ngerke/analysis-model/pkg/shared/files"
)

// DefaultConfigPath is read when no configuration file is given explicitly.
const DefaultConfigPath = "config.yml"

// Config is the YAML configuration of the analysis CLI.
type Config struct {
	Logger  Logger  `yaml:"logger"`
	Filters Filters `yaml:"filters"`
}

// Logger holds the logger settings. Unset booleans fall back to the logger defaults.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Filters maps attribute names (file, package, module, category, type) to
// regular expressions that findings have to match fully.
type Filters struct {
	Include map[string][]string `yaml:"include"`
	Exclude map[string][]string `yaml:"exclude"`
}

// ValidateConfigPath checks that the path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	// an empty file decodes to io.EOF and leaves the defaults in place
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads the configuration from configPath. An empty path reads
// DefaultConfigPath if it exists and returns an empty configuration otherwise.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		if _, err := os.Stat(DefaultConfigPath); err != nil {
			return cfg, nil
		}
		configPath = DefaultConfigPath
	}

	configPath, err := files.ExpandPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
