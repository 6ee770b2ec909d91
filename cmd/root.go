package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ngerke/analysis-model/cmd/summary"
	"github.com/ngerke/analysis-model/cmd/version"
	"github.com/ngerke/analysis-model/internal/config"
	"github.com/ngerke/analysis-model/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "analysis [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Aggregates findings of static analysis tools.",
		Long: `Analysis merges the findings reported by compilers, linters and static analyzers
	into one deduplicated set that can be filtered and summarized.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml in the working directory, if present)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(summary.SummaryCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config file: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	version.Init(AppConfig)
	summary.Init(AppConfig)
}
