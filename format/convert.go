package format

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/parsing"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// convertibleQuotedNames lists the structure names that, when found as a
// quoted string value, get rewritten into array-structure form. Older
// files carry expected issues as escaped strings; the array form is the
// canonical one.
var convertibleQuotedNames = []string{"expected-issue,", "change-severity,"}

func (f *formatter) formatValueInline(node *cst.Node) string {
	text := f.text(node)
	if converted, ok := f.tryConvertQuotedStructure(text); ok {
		return converted
	}
	return text
}

// tryConvertQuotedStructure rewrites a quoted structure string into
// [name, field, ...] array form, re-parsing the unescaped content as an
// independent document.
func (f *formatter) tryConvertQuotedStructure(text string) (string, bool) {
	if len(text) < 2 || !strings.HasPrefix(text, "\"") || !strings.HasSuffix(text, "\"") {
		return "", false
	}

	inner := text[1 : len(text)-1]
	convertible := false
	for _, name := range convertibleQuotedNames {
		if strings.HasPrefix(inner, name) {
			convertible = true
			break
		}
	}
	if !convertible {
		return "", false
	}

	return f.formatAsArrayStructure(unescapeString(inner))
}

// unescapeString resolves \" and \\; any other backslash stays literal.
func unescapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// formatAsArrayStructure parses content as a structure and renders it in
// [name, fields...] form, multiline when the name demands it or the
// inline form overflows the line.
func (f *formatter) formatAsArrayStructure(content string) (string, bool) {
	tree, diags := parsing.Parse(content)
	if diags.HasErrors() {
		return "", false
	}

	structure := tree.Root().FirstChildOfKind(cst.KindStructure)
	if structure == nil {
		return "", false
	}

	var structureName string
	if name := structure.FirstChildOfKind(cst.KindStructureName); name != nil {
		structureName = tree.Text(name)
	}
	alwaysMultiline := structureName == "expected-issue" || structureName == "change-severity"

	sub := newFormatter(tree, Options{IndentWidth: f.indentWidth, MaxLineLength: f.maxLineLength})
	inline := sub.formatStructureInline(structure)

	if !alwaysMultiline && f.currentIndent+len(inline)+2 <= f.maxLineLength {
		return "[" + inline + "]", true
	}

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(structureName)
	sb.WriteString(",\n")

	if fields := structure.FirstChildOfKind(cst.KindFieldList); fields != nil {
		indent := strings.Repeat(" ", f.currentIndent+f.indentWidth)
		for _, field := range fields.ChildrenOfKind(cst.KindField) {
			sb.WriteString(indent)
			sb.WriteString(sub.formatFieldInline(field))
			sb.WriteString(",\n")
		}
	}

	sb.WriteString(strings.Repeat(" ", f.currentIndent))
	sb.WriteByte(']')
	return sb.String(), true
}
