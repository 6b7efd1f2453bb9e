package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thiblahute/validatetest-go/cli/internal/config"
	"github.com/thiblahute/validatetest-go/vts/language"
)

// collectFiles expands the given arguments into a list of test files:
// files are taken as-is, directories are searched recursively for
// recognized extensions.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := config.AppFs.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = afero.Walk(config.AppFs, arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && language.MatchesPath(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no test files found")
	}
	return files, nil
}

// readSource reads one test file through the application filesystem.
func readSource(path string) (string, error) {
	content, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
