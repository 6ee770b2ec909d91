package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReportExtensions lists the extensions picked up when a report directory is scanned.
var ReportExtensions = []string{"sarif"}

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// FindByExt walks the directory tree rooted at root and returns the regular files
// with one of the given extensions, sorted by path.
func FindByExt(root string, exts []string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access %q: %w", path, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				found = append(found, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

// ResolveReports expands every path into the list of report files to read.
// Files are kept as given, directories are replaced by the reports they contain.
func ResolveReports(paths []string) ([]string, error) {
	var reports []string
	for _, path := range paths {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", path, err)
		}

		info, err := os.Stat(expanded)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", path, err)
		}
		if !info.IsDir() {
			if err := ValidatePath(expanded); err != nil {
				return nil, err
			}
			reports = append(reports, expanded)
			continue
		}

		found, err := FindByExt(expanded, ReportExtensions)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("directory %q contains no reports with extensions %v", path, ReportExtensions)
		}
		reports = append(reports, found...)
	}
	return reports, nil
}
