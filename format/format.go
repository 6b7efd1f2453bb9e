// Package format reformats validatetest documents: canonical spacing,
// line-length aware wrapping, and stable indentation, driven entirely by
// the concrete syntax tree.
package format

import (
	"fmt"
	"strings"

	"github.com/thiblahute/validatetest-go/vts/parsing"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// Options controls formatting policy.
type Options struct {
	IndentWidth   int
	MaxLineLength int
}

// DefaultOptions returns the standard policy: four-space indent, lines
// wrapped at 120 columns.
func DefaultOptions() Options {
	return Options{
		IndentWidth:   4,
		MaxLineLength: 120,
	}
}

// Reformat parses and reformats a document. Documents containing parse
// errors are refused, with the first error's position in the message.
func Reformat(source string, opts Options) (string, error) {
	tree, _ := parsing.Parse(source)
	root := tree.Root()

	if root.ContainsError() {
		for _, child := range root.Children() {
			if child.ContainsError() {
				line, col := lineCol(source, child.Span().Start)
				return "", fmt.Errorf("parse error at line %d, column %d", line, col)
			}
		}
		return "", fmt.Errorf("parse error in file")
	}

	f := newFormatter(tree, opts)
	return f.format(root), nil
}

// formatter renders a tree back to text. It keeps a current indent level
// and appends to a single output builder, mirroring the tree walk.
type formatter struct {
	tree          *cst.Tree
	out           strings.Builder
	indentWidth   int
	maxLineLength int
	currentIndent int
}

func newFormatter(tree *cst.Tree, opts Options) *formatter {
	f := &formatter{
		tree:          tree,
		indentWidth:   opts.IndentWidth,
		maxLineLength: opts.MaxLineLength,
	}
	f.out.Grow(len(tree.Source()))
	return f
}

func (f *formatter) indent() string {
	return strings.Repeat(" ", f.currentIndent)
}

func (f *formatter) text(n *cst.Node) string {
	return f.tree.Text(n)
}

func (f *formatter) format(root *cst.Node) string {
	f.formatSourceFile(root)
	out := f.out.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// countBlankLinesBetween preserves intentional vertical spacing between
// top-level items.
func (f *formatter) countBlankLinesBetween(endByte, startByte int) int {
	if startByte <= endByte {
		return 0
	}
	newlines := strings.Count(f.tree.Source()[endByte:startByte], "\n")
	if newlines == 0 {
		return 0
	}
	return newlines - 1
}

func (f *formatter) formatSourceFile(node *cst.Node) {
	prevEnd := 0
	for _, child := range node.Children() {
		for i := 0; i < f.countBlankLinesBetween(prevEnd, child.Span().Start); i++ {
			f.out.WriteByte('\n')
		}

		switch child.Kind() {
		case cst.KindComment:
			f.formatComment(child)
			f.out.WriteByte('\n')
		case cst.KindStructure:
			f.formatStructure(child)
			f.out.WriteByte('\n')
		}
		prevEnd = child.Span().End
	}
}

// alwaysMultilineNames lists action names whose field lists read better
// one field per line regardless of length.
var alwaysMultilineNames = map[string]bool{
	"check-properties":       true,
	"check-child-properties": true,
	"set-child-properties":   true,
	"set-properties":         true,
	"expected-issue":         true,
}

// alwaysMultilineArrayNames extends the set for structures nested inside
// arrays, where change-severity entries also split.
var alwaysMultilineArrayNames = map[string]bool{
	"expected-issue":         true,
	"change-severity":        true,
	"check-properties":       true,
	"check-child-properties": true,
	"set-child-properties":   true,
	"set-properties":         true,
}

func (f *formatter) structureFitsOnLine(node *cst.Node) bool {
	if f.containsNestedBlock(node) {
		return false
	}
	if name := node.FirstChildOfKind(cst.KindStructureName); name != nil {
		if alwaysMultilineNames[f.text(name)] {
			return false
		}
	}
	inline := f.formatStructureInline(node)
	return f.currentIndent+len(inline) <= f.maxLineLength && !strings.Contains(inline, "\n")
}

func (f *formatter) containsNestedBlock(node *cst.Node) bool {
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindNestedStructureBlock:
			return true
		case cst.KindFieldList, cst.KindField, cst.KindFieldValue:
			if f.containsNestedBlock(child) {
				return true
			}
		}
	}
	return false
}

func (f *formatter) formatStructure(node *cst.Node) {
	if f.structureFitsOnLine(node) {
		f.out.WriteString(f.indent())
		f.out.WriteString(f.formatStructureInline(node))
		return
	}

	if name := node.FirstChildOfKind(cst.KindStructureName); name != nil {
		f.out.WriteString(f.indent())
		f.out.WriteString(f.text(name))
	}

	if fields := node.FirstChildOfKind(cst.KindFieldList); fields != nil {
		f.out.WriteString(",\n")
		f.currentIndent += f.indentWidth
		f.formatFieldList(fields)
		f.currentIndent -= f.indentWidth
	}

	if node.FirstChildOfKind(cst.KindSemicolon) != nil {
		f.out.WriteByte(';')
	}
}

func (f *formatter) formatFieldList(node *cst.Node) {
	fields := node.ChildrenOfKind(cst.KindField)
	for i, field := range fields {
		f.out.WriteString(f.indent())
		f.formatInlineField(field)
		if i < len(fields)-1 {
			f.out.WriteString(",\n")
		}
	}
}

func (f *formatter) formatInlineFieldList(node *cst.Node) {
	fields := node.ChildrenOfKind(cst.KindField)
	for i, field := range fields {
		f.formatInlineField(field)
		if i < len(fields)-1 {
			f.out.WriteString(", ")
		}
	}
}

func (f *formatter) formatInlineField(node *cst.Node) {
	if name := node.Field(cst.FieldOfName); name != nil {
		f.out.WriteString(f.text(name))
	}
	f.out.WriteByte('=')
	if value := node.Field(cst.FieldOfValue); value != nil {
		f.formatFieldValue(value)
	}
}

func (f *formatter) formatFieldValue(node *cst.Node) {
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindNestedStructureBlock:
			f.formatNestedBlock(child)
		case cst.KindArray:
			f.formatArray(child)
		case cst.KindAngleBracketArray:
			f.formatAngleBracketArray(child)
		case cst.KindTypedValue:
			f.formatTypedValue(child)
		case cst.KindValue:
			f.formatValue(child)
		}
	}
}

func (f *formatter) formatTypedValue(node *cst.Node) {
	f.out.WriteByte('(')
	if typeName := node.Field(cst.FieldOfType); typeName != nil {
		f.out.WriteString(f.text(typeName))
	}
	f.out.WriteByte(')')

	value := node.Field(cst.FieldOfValue)
	if value == nil {
		return
	}
	switch value.Kind() {
	case cst.KindArray:
		f.formatArray(value)
	case cst.KindAngleBracketArray:
		f.formatAngleBracketArray(value)
	case cst.KindValue:
		f.formatValue(value)
	default:
		f.out.WriteString(f.text(value))
	}
}

func (f *formatter) formatValue(node *cst.Node) {
	f.out.WriteString(f.formatValueInline(node))
}

func (f *formatter) formatComment(node *cst.Node) {
	indent := f.indent()
	text := f.text(node)

	if f.currentIndent+len(text) <= f.maxLineLength {
		f.out.WriteString(indent)
		f.out.WriteString(text)
		return
	}

	// Wrap long comments word by word under a "# " prefix.
	content := strings.TrimPrefix(text, "#")
	content = strings.TrimPrefix(content, " ")
	prefix := indent + "# "
	maxContentLen := f.maxLineLength - len(prefix)

	var currentLine string
	firstLine := true
	for _, word := range strings.Fields(content) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxContentLen:
			currentLine += " " + word
		default:
			if !firstLine {
				f.out.WriteByte('\n')
			}
			f.out.WriteString(prefix)
			f.out.WriteString(currentLine)
			currentLine = word
			firstLine = false
		}
	}
	if currentLine != "" {
		if !firstLine {
			f.out.WriteByte('\n')
		}
		f.out.WriteString(prefix)
		f.out.WriteString(currentLine)
	}
}

// lineCol converts a byte offset to one-based line and column numbers.
func lineCol(source string, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	line := 1
	col := 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
