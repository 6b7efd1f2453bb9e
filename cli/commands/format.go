package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thiblahute/validatetest-go/cli/internal/config"
	"github.com/thiblahute/validatetest-go/cli/internal/ui"
	"github.com/thiblahute/validatetest-go/cli/internal/watch"
	"github.com/thiblahute/validatetest-go/format"
)

var formatCmd = &cobra.Command{
	Use:     "format [file]...",
	Aliases: []string{"fmt"},
	Short:   "Format validate test files",
	Long: `Format validate test files to the canonical style: four-space
indentation, line-length aware wrapping, and one action per statement.

With no file, reads from stdin and writes to stdout. Files with parse
errors are refused.`,
	RunE: runFormat,
}

var (
	formatInPlace    bool
	formatCheck      bool
	formatWatch      bool
	formatIndent     int
	formatLineLength int
)

func init() {
	formatCmd.Flags().BoolVarP(&formatInPlace, "in-place", "i", false, "Edit files in place")
	formatCmd.Flags().BoolVarP(&formatCheck, "check", "c", false, "Check if files are formatted (exit 1 if not)")
	formatCmd.Flags().BoolVarP(&formatWatch, "watch", "w", false, "Reformat a file whenever it changes (implies --in-place)")
	formatCmd.Flags().IntVar(&formatIndent, "indent", 0, "Indentation width (default 4)")
	formatCmd.Flags().IntVar(&formatLineLength, "line-length", 0, "Maximum line length (default 120)")

	rootCmd.AddCommand(formatCmd)
}

func formatOptions() format.Options {
	opts := format.DefaultOptions()
	if cfg != nil {
		if cfg.IndentWidth > 0 {
			opts.IndentWidth = cfg.IndentWidth
		}
		if cfg.MaxLineLength > 0 {
			opts.MaxLineLength = cfg.MaxLineLength
		}
	}
	if formatIndent > 0 {
		opts.IndentWidth = formatIndent
	}
	if formatLineLength > 0 {
		opts.MaxLineLength = formatLineLength
	}
	return opts
}

func runFormat(cmd *cobra.Command, args []string) error {
	opts := formatOptions()

	if len(args) == 0 {
		if formatWatch {
			return fmt.Errorf("--watch requires a file argument")
		}
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		formatted, err := format.Reformat(string(source), opts)
		if err != nil {
			return err
		}
		if formatCheck {
			if formatted != string(source) {
				return fmt.Errorf("input needs formatting")
			}
			return nil
		}
		fmt.Print(formatted)
		return nil
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if formatWatch {
		if len(files) != 1 {
			return fmt.Errorf("--watch works with exactly one file")
		}
		return watchFormat(files[0], opts)
	}

	anyDiff := false
	for _, file := range files {
		changed, err := formatOne(file, opts)
		if err != nil {
			ui.PrintError("%s: %v", file, err)
			return err
		}
		if changed {
			anyDiff = true
		}
	}

	if formatCheck && anyDiff {
		return fmt.Errorf("some files need formatting")
	}
	return nil
}

// formatOne formats a single file according to the active mode. Reports
// whether the file differed from its formatted form.
func formatOne(file string, opts format.Options) (bool, error) {
	source, err := readSource(file)
	if err != nil {
		return false, err
	}

	formatted, err := format.Reformat(source, opts)
	if err != nil {
		return false, err
	}

	if formatted == source {
		return false, nil
	}

	switch {
	case formatCheck:
		ui.PrintWarning("%s: needs formatting", file)
		ui.PrintDiff(source, formatted)
	case formatInPlace:
		if err := afero.WriteFile(config.AppFs, file, []byte(formatted), 0644); err != nil {
			return true, fmt.Errorf("failed to write %s: %w", file, err)
		}
		ui.PrintSuccess("Formatted %s", absPath(file))
	default:
		fmt.Print(formatted)
	}

	return true, nil
}

func watchFormat(file string, opts format.Options) error {
	formatInPlace = true

	w, err := watch.NewWatcher(file, func() error {
		if _, err := formatOne(file, opts); err != nil {
			ui.PrintError("%s: %v", file, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", absPath(file))
	if err := w.Start(); err != nil {
		return err
	}

	select {}
}
