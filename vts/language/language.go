// Package language describes the validatetest language definition as
// exposed to embedding tools: its name, ABI level, file extensions, and
// tool compatibility checks.
package language

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Name is the canonical language name.
const Name = "validatetest"

// ABIVersion is the structural compatibility level of the syntax tree.
// It only changes when node kinds, field names, or extras change in a way
// consumers can observe.
const ABIVersion = 14

// Version is the language definition version, following semver.
const Version = "1.0.0"

// minToolVersion is the oldest embedding-tool version the current tree
// shape is compatible with.
const minToolVersion = "0.20.0"

// Extensions lists the file extensions recognized as validatetest
// documents.
var Extensions = []string{".validatetest"}

// MatchesPath reports whether the given path names a validatetest
// document.
func MatchesPath(path string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Compatible reports whether an embedding tool at the given version can
// consume trees produced by this package.
func Compatible(toolVersion string) (bool, error) {
	v, err := goversion.NewVersion(toolVersion)
	if err != nil {
		return false, err
	}
	min, err := goversion.NewVersion(minToolVersion)
	if err != nil {
		return false, err
	}
	return v.GreaterThanOrEqual(min), nil
}
