package sarif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngerke/analysis-model/pkg/findings"
)

const semgrepReport = `{
  "version": "2.1.0",
  "runs": [
    {
      "tool": {
        "driver": {
          "name": "semgrep",
          "rules": [
            {
              "id": "go.lang.security.audit.sqli",
              "properties": {"tags": ["security", "CWE-89"]},
              "defaultConfiguration": {"level": "error"}
            },
            {
              "id": "go.lang.correctness.useless-eqeq",
              "properties": {"problem.severity": "note"}
            }
          ]
        }
      },
      "results": [
        {
          "ruleId": "go.lang.security.audit.sqli",
          "message": {"text": "SQL built from user input"},
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "internal/db/query.go"},
                "region": {"startLine": 12, "endLine": 14}
              }
            }
          ]
        },
        {
          "ruleId": "go.lang.correctness.useless-eqeq",
          "level": "warning",
          "message": {"text": "useless comparison"},
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "file://cmd/main.go"},
                "region": {"startLine": 3}
              }
            }
          ]
        },
        {
          "ruleId": "go.lang.correctness.useless-eqeq",
          "message": {"text": "useless comparison"},
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "cmd/other.go"},
                "region": {"startLine": 8}
              }
            }
          ]
        },
        {
          "ruleId": "go.lang.security.audit.sqli",
          "message": {"text": "SQL built from user input"},
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "internal/db/query.go"},
                "region": {"startLine": 12, "endLine": 14}
              }
            }
          ]
        },
        {
          "ruleId": "go.lang.security.audit.sqli",
          "message": {"text": "accepted risk"},
          "suppressions": [{"kind": "inSource"}],
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "internal/db/legacy.go"},
                "region": {"startLine": 1}
              }
            }
          ]
        },
        {
          "ruleId": "unknown.rule",
          "message": {"text": "no location"}
        }
      ]
    }
  ]
}`

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestToFindings(t *testing.T) {
	report, err := ReadReport(writeReport(t, semgrepReport), hclog.NewNullLogger(), false)
	require.NoError(t, err)

	set := report.ToFindings()

	assert.Equal(t, "semgrep", set.ID())
	assert.Equal(t, 5, set.Size())
	assert.Equal(t, 1, set.DuplicatesSize())
	assert.Equal(t, 2, set.HighPrioritySize())
	assert.Equal(t, 2, set.NormalPrioritySize())
	assert.Equal(t, 1, set.LowPrioritySize())
	assert.Equal(t, []string{"semgrep"}, set.ToolNames())
	assert.Len(t, set.InfoMessages(), 1)

	first, err := set.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "internal/db/query.go", first.FileName())
	assert.Equal(t, "go.lang.security.audit.sqli", first.Type())
	assert.Equal(t, "security", first.Category())
	assert.Equal(t, findings.High, first.Priority())
	assert.Equal(t, "SQL built from user input", first.Message())
	assert.Equal(t, 12, first.LineStart())
	assert.Equal(t, 14, first.LineEnd())

	second, err := set.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "cmd/main.go", second.FileName())
	assert.Equal(t, findings.Normal, second.Priority())
	assert.Equal(t, 3, second.LineEnd())

	third, err := set.Get(2)
	require.NoError(t, err)
	assert.Equal(t, findings.Low, third.Priority())

	last, err := set.Get(4)
	require.NoError(t, err)
	assert.Equal(t, "-", last.FileName())
	assert.Equal(t, "unknown.rule", last.Type())
	assert.Equal(t, findings.Normal, last.Priority())
}

func TestReadReportWithoutSuppressions(t *testing.T) {
	report, err := ReadReport(writeReport(t, semgrepReport), hclog.NewNullLogger(), true)
	require.NoError(t, err)

	set := report.ToFindings()

	assert.Equal(t, 4, set.Size())
	assert.NotContains(t, set.Files(), "internal/db/legacy.go")
}

func TestReadReportErrors(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.sarif"), hclog.NewNullLogger(), false)
	assert.Error(t, err)

	_, err = ReadReport(writeReport(t, "{not json"), hclog.NewNullLogger(), false)
	assert.ErrorContains(t, err, "failed to parse SARIF report")
}

func TestToFindingsWithoutRuns(t *testing.T) {
	report, err := ReadReport(writeReport(t, `{"version": "2.1.0", "runs": []}`), nil, false)
	require.NoError(t, err)

	set := report.ToFindings()

	assert.True(t, set.IsEmpty())
	assert.False(t, set.HasID())
	assert.Equal(t, "", report.ToolName())
}

func TestToFindingsWithNilReport(t *testing.T) {
	set := NewReport(nil, nil, "broken.sarif").ToFindings()

	assert.True(t, set.IsEmpty())
	assert.Equal(t, []string{"Skipping broken.sarif: empty SARIF report"}, set.ErrorMessages())
}

func TestResultLevelFallbacks(t *testing.T) {
	assert.Equal(t, "warning", resultLevel(&gosarif.Result{}, nil))
	assert.Equal(t, "", levelString(nil))
	level := "error"
	assert.Equal(t, "error", levelString(&level))
	assert.Equal(t, "note", levelString("note"))
}
