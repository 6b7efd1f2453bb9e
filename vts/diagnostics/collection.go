package diagnostics

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Diagnostics represents a list of parser errors and warnings.
// It accumulates every problem found during a parse instead of erroring out
// early, so callers can show all of them at once.
type Diagnostics struct {
	errors   []ParseError
	warnings []ParseWarning
}

// NewDiagnostics creates a new empty Diagnostics collection.
func NewDiagnostics() Diagnostics {
	return Diagnostics{
		errors:   make([]ParseError, 0),
		warnings: make([]ParseWarning, 0),
	}
}

// Errors returns all errors in the collection.
func (d *Diagnostics) Errors() []ParseError {
	return d.errors
}

// Warnings returns all warnings in the collection.
func (d *Diagnostics) Warnings() []ParseWarning {
	return d.warnings
}

// PushError adds an error to the collection.
func (d *Diagnostics) PushError(err ParseError) {
	d.errors = append(d.errors, err)
}

// PushWarning adds a warning to the collection.
func (d *Diagnostics) PushWarning(warning ParseWarning) {
	d.warnings = append(d.warnings, warning)
}

// Append merges another collection into this one.
func (d *Diagnostics) Append(other Diagnostics) {
	d.errors = append(d.errors, other.errors...)
	d.warnings = append(d.warnings, other.warnings...)
}

// HasErrors returns true if there is at least one error in this collection.
func (d *Diagnostics) HasErrors() bool {
	return len(d.errors) > 0
}

// ToResult returns an error if there are errors, otherwise returns nil.
func (d *Diagnostics) ToResult() error {
	if d.HasErrors() {
		return fmt.Errorf("parsing failed with %d errors", len(d.errors))
	}
	return nil
}

// ToPrettyString formats all errors as a pretty-printed string.
func (d *Diagnostics) ToPrettyString(fileName, source string) string {
	var buf bytes.Buffer
	for _, err := range d.errors {
		d.writePretty(&buf, fileName, source, "error", err.Message(), err.Span(), color.FgRed)
	}
	return buf.String()
}

// WarningsToPrettyString formats all warnings as a pretty-printed string.
func (d *Diagnostics) WarningsToPrettyString(fileName, source string) string {
	var buf bytes.Buffer
	for _, warn := range d.warnings {
		d.writePretty(&buf, fileName, source, "warning", warn.Message(), warn.Span(), color.FgYellow)
	}
	return buf.String()
}

// writePretty writes one diagnostic with its offending line and a caret
// marker underneath, colored with the given attribute.
func (d *Diagnostics) writePretty(buf *bytes.Buffer, fileName, text, title, message string, span Span, attr color.Attribute) {
	lines := d.getLines(text)
	startLineNum := d.getLineNumber(text, span.Start)
	if startLineNum >= len(lines) {
		startLineNum = len(lines) - 1
	}
	if startLineNum < 0 {
		startLineNum = 0
	}

	bytesInLineBefore := d.getLineStart(text, startLineNum)
	line := ""
	if startLineNum < len(lines) {
		line = lines[startLineNum]
	}
	startInLine := span.Start - bytesInLineBefore
	if startInLine < 0 {
		startInLine = 0
	}
	if startInLine > len(line) {
		startInLine = len(line)
	}
	endInLine := startInLine + span.Len()
	if endInLine > len(line) {
		endInLine = len(line)
	}

	prefix := line[:startInLine]
	offending := line[startInLine:endInLine]
	suffix := line[endInLine:]

	titleColor := color.New(attr, color.Bold)
	descColor := color.New(color.Bold)
	arrowColor := color.New(color.FgCyan, color.Bold)
	filePathColor := color.New(color.Underline)
	lineNumColor := color.New(color.FgCyan, color.Bold)
	offendingColor := color.New(attr, color.Bold)

	titleColor.Fprintf(buf, "%s", title)
	fmt.Fprintf(buf, ": ")
	descColor.Fprintf(buf, "%s\n", message)

	arrowColor.Fprintf(buf, "  --> ")
	filePathColor.Fprintf(buf, "%s:%d\n", fileName, startLineNum+1)

	lineNumColor.Fprintf(buf, "   | \n")

	lineNumColor.Fprintf(buf, "%2d | ", startLineNum+1)
	fmt.Fprintf(buf, "%s", prefix)
	offendingColor.Fprintf(buf, "%s", offending)
	fmt.Fprintf(buf, "%s\n", suffix)

	lineNumColor.Fprintf(buf, "   | ")
	fmt.Fprintf(buf, "%s", strings.Repeat(" ", startInLine))
	if len(offending) == 0 {
		offendingColor.Fprintf(buf, "^\n")
	} else {
		offendingColor.Fprintf(buf, "%s\n", strings.Repeat("^", len(offending)))
	}

	lineNumColor.Fprintf(buf, "   | \n")
}

// getLineNumber returns the line number (0-based) for a given byte position.
func (d *Diagnostics) getLineNumber(text string, pos int) int {
	if pos > len(text) {
		pos = len(text)
	}
	return strings.Count(text[:pos], "\n")
}

// getLineStart returns the byte position at which a line starts.
func (d *Diagnostics) getLineStart(text string, lineNum int) int {
	pos := 0
	for i := 0; i < lineNum; i++ {
		if idx := strings.Index(text[pos:], "\n"); idx >= 0 {
			pos += idx + 1
		} else {
			break
		}
	}
	return pos
}

// getLines splits text into lines.
func (d *Diagnostics) getLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// FromError creates a Diagnostics from a single error.
func FromError(err ParseError) Diagnostics {
	d := NewDiagnostics()
	d.PushError(err)
	return d
}

// FromWarning creates a Diagnostics from a single warning.
func FromWarning(warning ParseWarning) Diagnostics {
	d := NewDiagnostics()
	d.PushWarning(warning)
	return d
}
