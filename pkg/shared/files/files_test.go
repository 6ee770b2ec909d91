package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/reports/lint.sarif")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports", "lint.sarif"), expanded)

	expanded, err = ExpandPath("reports/lint.sarif")
	require.NoError(t, err)
	assert.Equal(t, "reports/lint.sarif", expanded)
}

func TestValidatePath(t *testing.T) {
	tmpDir := t.TempDir()
	report := filepath.Join(tmpDir, "lint.sarif")
	writeFile(t, report)

	assert.NoError(t, ValidatePath(report))
	assert.ErrorContains(t, ValidatePath(tmpDir), "is a directory")
	assert.ErrorContains(t, ValidatePath(filepath.Join(tmpDir, "missing.sarif")), "path stat error")
}

func TestFindByExt(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "b.sarif"))
	writeFile(t, filepath.Join(tmpDir, "nested", "a.SARIF"))
	writeFile(t, filepath.Join(tmpDir, "notes.txt"))

	found, err := FindByExt(tmpDir, []string{"sarif"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "b.sarif"),
		filepath.Join(tmpDir, "nested", "a.SARIF"),
	}, found)
}

func TestResolveReports(t *testing.T) {
	tmpDir := t.TempDir()
	single := filepath.Join(tmpDir, "single.json")
	writeFile(t, single)
	reportDir := filepath.Join(tmpDir, "reports")
	writeFile(t, filepath.Join(reportDir, "vet.sarif"))
	writeFile(t, filepath.Join(reportDir, "lint.sarif"))

	reports, err := ResolveReports([]string{single, reportDir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(reportDir, "lint.sarif"),
		filepath.Join(reportDir, "vet.sarif"),
	}, reports)
}

func TestResolveReportsErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ResolveReports([]string{filepath.Join(tmpDir, "missing.sarif")})
	assert.ErrorContains(t, err, "missing.sarif")

	_, err = ResolveReports([]string{tmpDir})
	assert.ErrorContains(t, err, "contains no reports")
}
