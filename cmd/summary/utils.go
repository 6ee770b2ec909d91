package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ngerke/analysis-model/internal/config"
	"github.com/ngerke/analysis-model/internal/sarif"
	"github.com/ngerke/analysis-model/pkg/findings"
	"github.com/ngerke/analysis-model/pkg/shared/files"
)

var priorityColors = map[findings.Priority]*color.Color{
	findings.High:   color.New(color.FgRed, color.Bold),
	findings.Normal: color.New(color.FgYellow),
	findings.Low:    color.New(color.FgBlue),
}

// hasFlags reports whether any flag was set on the command line.
func hasFlags(flags *pflag.FlagSet) bool {
	set := false
	flags.Visit(func(*pflag.Flag) {
		set = true
	})
	return set
}

func attributeNames() []string {
	names := make([]string, 0, len(findings.Attributes))
	for _, attribute := range findings.Attributes {
		names = append(names, string(attribute))
	}
	return names
}

// buildFilter registers the configured filters first and the command line filters after them.
func buildFilter(o *RunOptions, cfg *config.Config) (*findings.FilterBuilder[findings.Finding], error) {
	builder := findings.NewFilterBuilder[findings.Finding]()
	if cfg != nil {
		if err := config.ApplyFilters(&cfg.Filters, builder); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	flagFilters := []struct {
		attribute findings.Attribute
		patterns  []string
		include   bool
	}{
		{findings.AttributeFile, o.IncludeFile, true},
		{findings.AttributeFile, o.ExcludeFile, false},
		{findings.AttributePackage, o.IncludePackage, true},
		{findings.AttributePackage, o.ExcludePackage, false},
		{findings.AttributeModule, o.IncludeModule, true},
		{findings.AttributeModule, o.ExcludeModule, false},
		{findings.AttributeCategory, o.IncludeCategory, true},
		{findings.AttributeCategory, o.ExcludeCategory, false},
		{findings.AttributeType, o.IncludeType, true},
		{findings.AttributeType, o.ExcludeType, false},
	}
	for _, f := range flagFilters {
		if len(f.patterns) == 0 {
			continue
		}
		if err := builder.AddAttributeFilter(f.attribute, f.patterns, f.include); err != nil {
			return nil, fmt.Errorf("%s: %w", f.attribute, err)
		}
	}
	return builder, nil
}

// loadFindings reads every report, expanding directories, and merges the findings into one set.
func loadFindings(paths []string, noSuppressions bool, lg hclog.Logger) (*findings.RecordSet[findings.Finding], error) {
	reports, err := files.ResolveReports(paths)
	if err != nil {
		return nil, err
	}

	sets := make([]*findings.RecordSet[findings.Finding], 0, len(reports))
	for _, path := range reports {
		report, err := sarif.ReadReport(path, lg, noSuppressions)
		if err != nil {
			return nil, err
		}
		set := report.ToFindings()
		lg.Debug("read SARIF report", "file", path, "tool", set.ID(), "findings", set.Size())
		sets = append(sets, set)
	}

	merged := findings.NewRecordSet[findings.Finding]()
	if len(sets) > 0 {
		merged.AddAll(sets[0], sets[1:]...)
	}
	return merged, nil
}

type propertyCount struct {
	value string
	count int
}

// sortedCounts orders the counts by count descending, then by value.
func sortedCounts(counts map[string]int) []propertyCount {
	sorted := make([]propertyCount, 0, len(counts))
	for value, count := range counts {
		sorted = append(sorted, propertyCount{value: value, count: count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].value < sorted[j].value
	})
	return sorted
}

func priorityLabel(p findings.Priority) string {
	return cases.Title(language.Und).String(strings.ToLower(p.String()))
}

// writeSummary prints the accepted findings per priority and, if requested,
// per value of the group-by attribute.
func writeSummary(w io.Writer, merged, filtered *findings.RecordSet[findings.Finding], groupBy string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", filtered)
	for i := len(findings.Priorities) - 1; i >= 0; i-- {
		p := findings.Priorities[i]
		label := fmt.Sprintf("%-8s", priorityLabel(p)+":")
		fmt.Fprintf(&b, "  %s %d\n", priorityColors[p].Sprint(label), filtered.SizeOf(p))
	}
	fmt.Fprintf(&b, "  Duplicates: %d\n", merged.DuplicatesSize())
	fmt.Fprintf(&b, "  Filtered out: %d\n", merged.Size()-filtered.Size())
	if tools := filtered.ToolNames(); len(tools) > 0 {
		sort.Strings(tools)
		fmt.Fprintf(&b, "  Tools: %s\n", strings.Join(tools, ", "))
	}

	if groupBy != "" {
		attribute, err := findings.ParseAttribute(groupBy)
		if err != nil {
			return err
		}
		property, err := findings.Extractor[findings.Finding](attribute)
		if err != nil {
			return err
		}

		fmt.Fprintf(&b, "Findings by %s:\n", attribute)
		groups := filtered.GroupByProperty(property)
		for _, pc := range sortedCounts(filtered.PropertyCount(property)) {
			group := groups[pc.value]
			fmt.Fprintf(&b, "  %5d  %s (high: %d, normal: %d, low: %d)\n", pc.count, pc.value,
				group.HighPrioritySize(), group.NormalPrioritySize(), group.LowPrioritySize())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
