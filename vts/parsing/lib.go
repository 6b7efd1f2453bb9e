package parsing

import (
	"github.com/thiblahute/validatetest-go/internal/debug"
	"github.com/thiblahute/validatetest-go/vts/diagnostics"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
	"github.com/thiblahute/validatetest-go/vts/parsing/lexer"
)

// Parse tokenizes and parses a validatetest document. It never fails:
// malformed input yields a tree with ERROR nodes plus collected
// diagnostics, and the returned tree always spans the entire input.
func Parse(input string) (*cst.Tree, diagnostics.Diagnostics) {
	debug.Debug("Parsing document", "bytes", len(input))

	diags := &diagnostics.Diagnostics{}

	lex := lexer.NewLexer(input, diags)
	tokens := lex.Tokenize()
	debug.Debug("Tokenization completed", "tokens", len(tokens))

	parser := NewParser(input, tokens, diags)
	tree := parser.Parse()

	return tree, *diags
}

// StringInterior decomposes the body of a string leaf into literal runs,
// escape sequences, variable references, and embedded expressions. The
// spans address the tree's source buffer. Returns nil for non-string nodes
// or strings too short to have a body.
func StringInterior(tree *cst.Tree, node *cst.Node) []lexer.InteriorSpan {
	span, ok := StringContentSpan(tree, node)
	if !ok || span.Start >= span.End {
		return nil
	}
	return lexer.ScanInterior(tree.Source(), span.Start, span.End)
}

// StringContentSpan returns the body span of a string leaf, quotes
// excluded. A terminated string owns its closing quote; an unterminated one
// runs to end of input, even when its last byte is an escaped quote.
func StringContentSpan(tree *cst.Tree, node *cst.Node) (diagnostics.Span, bool) {
	if node.Kind() != cst.KindString {
		return diagnostics.EmptySpan(), false
	}
	span := node.Span()
	start, end := span.Start+1, span.End
	if end > len(tree.Source()) {
		end = len(tree.Source())
	}
	if hasClosingQuote(tree.Source(), span.Start, end) {
		end--
	}
	if start > end {
		return diagnostics.EmptySpan(), false
	}
	return diagnostics.NewSpan(start, end, span.FileID), true
}

// hasClosingQuote reports whether source[end-1] closes the string opening
// at start. A quote preceded by an odd number of backslashes is escape
// payload, not a delimiter.
func hasClosingQuote(source string, start, end int) bool {
	if end-start < 2 || source[end-1] != '"' {
		return false
	}
	backslashes := 0
	for i := end - 2; i > start && source[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}
