package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ngerke/analysis-model/pkg/findings"
)

// ValidateConfig checks if the configuration has valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML config: configuration object is nil")
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML config: logger directive is invalid: %w", err)
	}
	if err := ValidateFilters(&cfg.Filters); err != nil {
		return fmt.Errorf("YAML config: filters directive is invalid: %w", err)
	}
	return nil
}

// ValidateLoggerConfig checks that the logger level is empty or known to hclog.
func ValidateLoggerConfig(logger *Logger) error {
	if strings.TrimSpace(logger.Level) != "" && hclog.LevelFromString(logger.Level) == hclog.NoLevel {
		return fmt.Errorf("unknown level %q", logger.Level)
	}
	return nil
}

// ValidateFilters checks that every attribute is known and every pattern compiles.
func ValidateFilters(filters *Filters) error {
	return ApplyFilters(filters, findings.NewFilterBuilder[findings.Finding]())
}

// ApplyFilters registers the configured include and exclude patterns on the builder.
// Attributes are registered in sorted order so errors are reported deterministically.
func ApplyFilters[T findings.Record](filters *Filters, builder *findings.FilterBuilder[T]) error {
	if err := applyGroup(filters.Include, builder, true); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := applyGroup(filters.Exclude, builder, false); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}

func applyGroup[T findings.Record](group map[string][]string, builder *findings.FilterBuilder[T], include bool) error {
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attribute, err := findings.ParseAttribute(name)
		if err != nil {
			return err
		}
		if err := builder.AddAttributeFilter(attribute, group[name], include); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
