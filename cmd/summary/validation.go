package summary

import (
	"fmt"
	"strings"

	"github.com/ngerke/analysis-model/pkg/findings"
	"github.com/ngerke/analysis-model/pkg/shared/files"
)

// validate validates the RunOptions for the summary command.
func validate(o *RunOptions) error {
	if len(o.SarifPaths) == 0 {
		return fmt.Errorf("--sarif is required")
	}
	for _, path := range o.SarifPaths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("--sarif must not be empty")
		}
	}
	if _, err := files.ResolveReports(o.SarifPaths); err != nil {
		return fmt.Errorf("--sarif: %w", err)
	}
	if o.GroupBy != "" {
		if _, err := findings.ParseAttribute(o.GroupBy); err != nil {
			return fmt.Errorf("--group-by: %w", err)
		}
	}
	return nil
}
