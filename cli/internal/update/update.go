package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"

	"github.com/thiblahute/validatetest-go/cli/internal/ui"
)

// CheckForUpdates compares the running version against the latest known
// release and tells the user how to upgrade.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	// TODO: fetch the latest release from the GitHub releases API instead
	// of pinning it here.
	latestVersionStr := "0.1.0"
	latest, err := version.NewVersion(latestVersionStr)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestVersionStr)
		fmt.Printf("\nUpdate with: go install github.com/thiblahute/validatetest-go/cli@latest\n")
	}

	return nil
}

// GetDownloadURL returns the release artifact URL for the current platform
func GetDownloadURL(ver string) string {
	return fmt.Sprintf("https://github.com/thiblahute/validatetest-go/releases/download/v%s/validatetest-%s-%s",
		ver, runtime.GOOS, runtime.GOARCH)
}
