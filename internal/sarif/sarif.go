package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/ngerke/analysis-model/pkg/findings"
)

// Report wraps a SARIF report together with the logger used while converting it.
type Report struct {
	*sarif.Report
	logger hclog.Logger
	path   string
}

func readSarifReport(inputPath string) (*sarif.Report, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	var sarifReport sarif.Report
	if err := json.Unmarshal(data, &sarifReport); err != nil {
		return nil, fmt.Errorf("failed to parse SARIF report %s: %w", inputPath, err)
	}

	return &sarifReport, nil
}

// removeSuppressedResults drops all results that carry suppressions.
func removeSuppressedResults(report *sarif.Report) {
	for _, run := range report.Runs {
		var filteredResults []*sarif.Result

		for _, result := range run.Results {
			if len(result.Suppressions) == 0 {
				filteredResults = append(filteredResults, result)
			}
		}

		run.Results = filteredResults
	}
}

// ReadReport loads the SARIF file at inputPath. With noSuppressions set,
// suppressed results are removed right away.
func ReadReport(inputPath string, logger hclog.Logger, noSuppressions bool) (*Report, error) {
	sarifReport, err := readSarifReport(inputPath)
	if err != nil {
		return nil, err
	}

	if noSuppressions {
		removeSuppressedResults(sarifReport)
	}

	return NewReport(sarifReport, logger, inputPath), nil
}

// NewReport wraps an already decoded SARIF report. The path is only used in messages.
func NewReport(report *sarif.Report, logger hclog.Logger, path string) *Report {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Report{Report: report, logger: logger, path: path}
}

// ToolName returns the driver name of the first run, or an empty string.
func (r *Report) ToolName() string {
	if r.Report == nil || len(r.Runs) == 0 || r.Runs[0].Tool.Driver == nil {
		return ""
	}
	return r.Runs[0].Tool.Driver.Name
}

// ToFindings converts every result of every run into a finding. The returned
// set is named after the tool of the first run; results that are value-equal
// are counted as duplicates.
func (r *Report) ToFindings() *findings.RecordSet[findings.Finding] {
	set := findings.NewRecordSet[findings.Finding]()
	if r.Report == nil {
		set.LogError("Skipping %s: empty SARIF report", r.path)
		return set
	}
	if name := r.ToolName(); name != "" {
		_ = set.SetID(name)
	}

	for runIndex, run := range r.Runs {
		origin := ""
		rulesByID := map[string]*sarif.ReportingDescriptor{}
		if run.Tool.Driver != nil {
			origin = run.Tool.Driver.Name
			for _, rule := range run.Tool.Driver.Rules {
				if rule == nil || strings.TrimSpace(rule.ID) == "" {
					continue
				}
				rulesByID[rule.ID] = rule
			}
		}
		if origin == "" {
			r.logger.Warn("SARIF run missing tool name", "file", r.path, "run", runIndex)
		}

		for _, result := range run.Results {
			if result == nil {
				continue
			}
			set.Add(r.toFinding(result, rulesByID, origin))
		}
		set.LogInfo("Converted %d SARIF results of run %d (%s) from %s", len(run.Results), runIndex, origin, r.path)
	}

	r.logger.Debug("converted SARIF report", "file", r.path, "findings", set.Size(), "duplicates", set.DuplicatesSize())
	return set
}

func (r *Report) toFinding(result *sarif.Result, rulesByID map[string]*sarif.ReportingDescriptor, origin string) findings.Finding {
	ruleID := ""
	if result.RuleID != nil {
		ruleID = strings.TrimSpace(*result.RuleID)
	}
	rule := rulesByID[ruleID]

	fileName := extractFileName(result)
	if fileName == "" {
		r.logger.Warn("SARIF result missing file URI", "file", r.path, "rule_id", ruleID)
	}
	start, end := extractRegion(result)

	message := ""
	if result.Message.Text != nil {
		message = *result.Message.Text
	}

	return findings.NewBuilder().
		WithFileName(fileName).
		WithType(ruleID).
		WithCategory(ruleCategory(rule)).
		WithOrigin(origin).
		WithPriority(findings.PriorityFromSarifLevel(resultLevel(result, rule))).
		WithMessage(message).
		WithLines(start, end).
		Build()
}

// resultLevel resolves the SARIF level of a result: the result's own level,
// then the CodeQL "problem.severity" rule property, then the rule default.
func resultLevel(result *sarif.Result, rule *sarif.ReportingDescriptor) string {
	if result.Level != nil && *result.Level != "" {
		return *result.Level
	}
	if rule == nil {
		return "warning"
	}
	if severity, ok := rule.Properties["problem.severity"].(string); ok && severity != "" {
		return severity
	}
	if rule.DefaultConfiguration != nil {
		if level := levelString(rule.DefaultConfiguration.Level); level != "" {
			return level
		}
	}
	return "warning"
}

func levelString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

// ruleCategory returns the first tag of the rule, if any.
func ruleCategory(rule *sarif.ReportingDescriptor) string {
	if rule == nil || rule.Properties == nil {
		return ""
	}
	switch tags := rule.Properties["tags"].(type) {
	case []string:
		if len(tags) > 0 {
			return tags[0]
		}
	case []interface{}:
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				return s
			}
		}
	}
	return ""
}

// extractFileName returns the artifact URI of the first location without a file:// scheme.
func extractFileName(result *sarif.Result) string {
	if len(result.Locations) == 0 {
		return ""
	}
	loc := result.Locations[0]
	if loc == nil || loc.PhysicalLocation == nil || loc.PhysicalLocation.ArtifactLocation == nil {
		return ""
	}
	uri := loc.PhysicalLocation.ArtifactLocation.URI
	if uri == nil {
		return ""
	}
	return strings.TrimPrefix(*uri, "file://")
}

// extractRegion returns start and end line numbers (0 when not present)
// taken from the first location region.
func extractRegion(result *sarif.Result) (int, int) {
	if len(result.Locations) == 0 {
		return 0, 0
	}
	loc := result.Locations[0]
	if loc == nil || loc.PhysicalLocation == nil || loc.PhysicalLocation.Region == nil {
		return 0, 0
	}

	start, end := 0, 0
	if loc.PhysicalLocation.Region.StartLine != nil {
		start = *loc.PhysicalLocation.Region.StartLine
	}
	if loc.PhysicalLocation.Region.EndLine != nil {
		end = *loc.PhysicalLocation.Region.EndLine
	}
	return start, end
}
