package summary

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ngerke/analysis-model/internal/config"
	"github.com/ngerke/analysis-model/internal/logger"
	"github.com/ngerke/analysis-model/pkg/shared/errors"
)

// RunOptions holds flags for the summary command.
type RunOptions struct {
	SarifPaths      []string `json:"sarif_paths,omitempty"`
	IncludeFile     []string `json:"include_file,omitempty"`
	ExcludeFile     []string `json:"exclude_file,omitempty"`
	IncludePackage  []string `json:"include_package,omitempty"`
	ExcludePackage  []string `json:"exclude_package,omitempty"`
	IncludeModule   []string `json:"include_module,omitempty"`
	ExcludeModule   []string `json:"exclude_module,omitempty"`
	IncludeCategory []string `json:"include_category,omitempty"`
	ExcludeCategory []string `json:"exclude_category,omitempty"`
	IncludeType     []string `json:"include_type,omitempty"`
	ExcludeType     []string `json:"exclude_type,omitempty"`
	GroupBy         string   `json:"group_by,omitempty"`
	NoSuppressions  bool     `json:"no_suppressions,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	// Example usage for the summary command
	exampleSummaryUsage = `  # Summarize a single SARIF report
  analysis summary --sarif semgrep.sarif

  # Merge the reports of several tools and count findings per file
  analysis summary --sarif semgrep.sarif --sarif codeql.sarif --group-by file

  # Only keep findings below src/, but not in generated code
  analysis summary --sarif semgrep.sarif --include-file 'src/.*' --exclude-file '.*_gen\.go'

  # Drop suppressed results and style findings
  analysis summary --sarif codeql.sarif --no-suppressions --exclude-category style

  # Summarize every *.sarif report found below a directory
  analysis summary --sarif ./reports --group-by type`

	// SummaryCmd merges SARIF reports into one deduplicated set and prints counts.
	SummaryCmd = &cobra.Command{
		Use:                   "summary --sarif PATH [--sarif PATH...] [--include-ATTRIBUTE RE] [--exclude-ATTRIBUTE RE] [--group-by ATTRIBUTE] [--no-suppressions]",
		Short:                 "Merge, deduplicate and filter findings of SARIF reports and print a summary",
		Example:               exampleSummaryUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runSummary,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runSummary is the main execution function for the summary command.
func runSummary(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !hasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	lg := logger.NewLogger(AppConfig, "summary")
	return execute(&opts, AppConfig, cmd.OutOrStdout(), lg)
}

func execute(o *RunOptions, cfg *config.Config, out io.Writer, lg hclog.Logger) error {
	if err := validate(o); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandErrorf(1, "invalid arguments: %w", err)
	}

	builder, err := buildFilter(o, cfg)
	if err != nil {
		lg.Error("invalid filter", "error", err)
		return errors.NewCommandErrorf(1, "invalid filter: %w", err)
	}

	merged, err := loadFindings(o.SarifPaths, o.NoSuppressions, lg)
	if err != nil {
		lg.Error("failed to read SARIF report", "error", err)
		return errors.NewCommandErrorf(2, "failed to read SARIF report: %w", err)
	}

	for _, message := range merged.InfoMessages() {
		lg.Debug(message)
	}
	for _, message := range merged.ErrorMessages() {
		lg.Warn(message)
	}

	filtered := merged.Filter(builder.Build())
	lg.Info("findings summarized", "reports", len(o.SarifPaths), "total", merged.Size(),
		"duplicates", merged.DuplicatesSize(), "accepted", filtered.Size())

	if err := writeSummary(out, merged, filtered, o.GroupBy); err != nil {
		return errors.NewCommandErrorf(2, "failed to write summary: %w", err)
	}
	return nil
}

func init() {
	flags := SummaryCmd.Flags()
	flags.StringArrayVar(&opts.SarifPaths, "sarif", nil, "Path to a SARIF report or a directory of *.sarif reports (repeat the flag to merge several)")
	// patterns may contain commas, so every pattern needs its own flag
	flags.StringArrayVar(&opts.IncludeFile, "include-file", nil, "Only keep findings whose file name fully matches the regular expression")
	flags.StringArrayVar(&opts.ExcludeFile, "exclude-file", nil, "Drop findings whose file name fully matches the regular expression")
	flags.StringArrayVar(&opts.IncludePackage, "include-package", nil, "Only keep findings whose package name fully matches the regular expression")
	flags.StringArrayVar(&opts.ExcludePackage, "exclude-package", nil, "Drop findings whose package name fully matches the regular expression")
	flags.StringArrayVar(&opts.IncludeModule, "include-module", nil, "Only keep findings whose module name fully matches the regular expression")
	flags.StringArrayVar(&opts.ExcludeModule, "exclude-module", nil, "Drop findings whose module name fully matches the regular expression")
	flags.StringArrayVar(&opts.IncludeCategory, "include-category", nil, "Only keep findings whose category fully matches the regular expression")
	flags.StringArrayVar(&opts.ExcludeCategory, "exclude-category", nil, "Drop findings whose category fully matches the regular expression")
	flags.StringArrayVar(&opts.IncludeType, "include-type", nil, "Only keep findings whose type fully matches the regular expression")
	flags.StringArrayVar(&opts.ExcludeType, "exclude-type", nil, "Drop findings whose type fully matches the regular expression")
	flags.StringVar(&opts.GroupBy, "group-by", "", fmt.Sprintf("Optional: print the number of findings per value of an attribute %v", attributeNames()))
	flags.BoolVar(&opts.NoSuppressions, "no-suppressions", false, "Drop SARIF results that carry suppressions")
	flags.BoolP("help", "h", false, "Show help for summary command.")
}
