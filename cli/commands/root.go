// Package commands implements the validatetest command line interface.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thiblahute/validatetest-go/cli/internal/config"
	"github.com/thiblahute/validatetest-go/internal/debug"
)

var (
	cfg       *config.Config
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "validatetest",
	Short: "Parse and format GStreamer validate test files",
	Long: `validatetest works with GStreamer validate test files: structured
test-action documents such as "action, field=value, field2=(type)value;".

It can parse files into a full syntax tree, report syntax errors with
source context, and reformat files to a canonical style.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.LoadConfig()
		if err != nil {
			loaded = &config.Config{IndentWidth: 4, MaxLineLength: 120}
		}
		cfg = loaded

		debug.Init(debugFlag || cfg.Debug)
		if cfg.NoColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute is the main entry point for the CLI
func Execute() error {
	return rootCmd.Execute()
}
