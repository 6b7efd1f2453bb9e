// Package vts provides the main API for working with validatetest
// documents: GStreamer validate test files built from GstStructure-style
// "action, field=value" statements.
package vts

import (
	"github.com/thiblahute/validatetest-go/format"
	"github.com/thiblahute/validatetest-go/vts/core"
	"github.com/thiblahute/validatetest-go/vts/diagnostics"
	"github.com/thiblahute/validatetest-go/vts/parsing"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// Re-export key types for convenience
type (
	SourceFile  = core.SourceFile
	Diagnostics = diagnostics.Diagnostics
	Span        = diagnostics.Span
	Tree        = cst.Tree
	Node        = cst.Node
)

// Parse parses a validatetest document and returns the concrete syntax
// tree and diagnostics. The parse is total: it never returns a nil tree.
func Parse(input string) (*cst.Tree, diagnostics.Diagnostics) {
	return parsing.Parse(input)
}

// ParseFile parses a validatetest document from a source file.
func ParseFile(file core.SourceFile) (*cst.Tree, diagnostics.Diagnostics) {
	return parsing.Parse(file.Data)
}

// Reformat reformats a validatetest document with the given indent width.
// Returns an error if the document contains parse errors.
func Reformat(source string, indentWidth int) (string, error) {
	opts := format.DefaultOptions()
	if indentWidth > 0 {
		opts.IndentWidth = indentWidth
	}
	return format.Reformat(source, opts)
}

// NewSourceFile creates a new source file.
func NewSourceFile(path, data string) core.SourceFile {
	return core.NewSourceFile(path, data)
}
