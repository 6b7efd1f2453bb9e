package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fmtDefault(t *testing.T, input string) string {
	t.Helper()
	out, err := Reformat(input, DefaultOptions())
	require.NoError(t, err)
	return out
}

func TestSimpleStructureInline(t *testing.T) {
	assert.Equal(t, "action, foo=bar\n", fmtDefault(t, "action, foo=bar"))
}

func TestSimpleStructureStaysInline(t *testing.T) {
	assert.Equal(t, "action, foo=bar, baz=123\n", fmtDefault(t, "action, foo=bar, baz=123"))
}

func TestLongStructureSplits(t *testing.T) {
	input := `very-long-action-name-here, field1="some long value here", field2="another long value", field3="yet another value", field4="and more values", field5="even more values here to exceed the limit"`
	output := fmtDefault(t, input)
	assert.Contains(t, output, ",\n    ", "long structure should split to multiple lines")
}

func TestNestedBlockPacking(t *testing.T) {
	output := fmtDefault(t, "meta, args={-t, video, --sink, fakesink}")
	assert.Contains(t, output, "-t, video, --sink, fakesink")
}

func TestNestedBlockLongValueSplits(t *testing.T) {
	input := `meta, args={-t, video, --sink, "this is a very long string value that definitely exceeds one hundred and twenty characters so it should cause line breaking to occur"}`
	output := fmtDefault(t, input)
	assert.Contains(t, output, "args={\n", "should split to multiline when block content is long")
}

func TestPreservesBlankLines(t *testing.T) {
	output := fmtDefault(t, "action1, foo=bar\n\naction2, baz=123")
	assert.Contains(t, output, "\n\n")
}

func TestNoExtraBlankLines(t *testing.T) {
	output := fmtDefault(t, "action1, foo=bar\naction2, baz=123")
	assert.NotContains(t, output, "\n\n")
}

func TestCommentPreserved(t *testing.T) {
	output := fmtDefault(t, "# This is a comment\naction, foo=bar")
	assert.True(t, strings.HasPrefix(output, "# This is a comment\n"))
}

func TestLongCommentWrapped(t *testing.T) {
	longComment := "# This is a very long comment that goes on and on well past one hundred and twenty characters and should therefore be wrapped onto multiple lines for readability"
	output := fmtDefault(t, longComment+"\naction, foo=bar")

	lines := strings.Split(output, "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "# "))
	assert.True(t, strings.HasPrefix(lines[1], "# "))
	assert.LessOrEqual(t, len(lines[0]), DefaultOptions().MaxLineLength)
	assert.LessOrEqual(t, len(lines[1]), DefaultOptions().MaxLineLength)
}

func TestArrayInlineShort(t *testing.T) {
	assert.Equal(t, "action, values=[1, 2, 3]\n", fmtDefault(t, "action, values=[1, 2, 3]"))
}

func TestArrayWithStructures(t *testing.T) {
	output := fmtDefault(t, "meta, issues={[expected-issue, level=critical, id=foo]}")
	assert.Contains(t, output, "[expected-issue,\n", "expected-issue should be multiline")
	assert.Contains(t, output, "level=critical")
	assert.Contains(t, output, "id=foo")
}

func TestSemicolonPreserved(t *testing.T) {
	output := fmtDefault(t, `set-vars, foo="bar";`)
	assert.True(t, strings.HasSuffix(output, ";\n"))
}

func TestTypedValue(t *testing.T) {
	output := fmtDefault(t, "action, value=(int)42")
	assert.Contains(t, output, "value=(int)42")
}

func TestCanonicalSpacing(t *testing.T) {
	output := fmtDefault(t, "action,foo=bar,baz=123")
	assert.Equal(t, "action, foo=bar, baz=123\n", output)
}

func TestIdempotent(t *testing.T) {
	inputs := []string{
		"meta,\n    handles-states=true,\n    args={\n        \"pipeline\",\n    }\n",
		"action, values=[1, 2, 3]",
		"meta, issues={[expected-issue, level=critical, id=foo]}",
		"foo, issues=[\"expected-issue, issue-id=x, details=\\\"a b\\\"\"]",
		"# comment\nplay;\n\npause\n",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := fmtDefault(t, input)
			second := fmtDefault(t, first)
			assert.Equal(t, first, second, "formatting should be idempotent")
		})
	}
}

func TestFileEndsWithNewline(t *testing.T) {
	output := fmtDefault(t, "action, foo=bar")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestTrailingCommentShortStaysOnLine(t *testing.T) {
	output := fmtDefault(t, "meta, args={\n    value,  # short\n}")
	assert.Contains(t, output, "value,  # short")
}

func TestTrailingCommentLongMovesBefore(t *testing.T) {
	input := "meta, args={\n    [action-with-long-name, param=\"value\"],  # this is a very very very long trailing comment that exceeds the line length limit and should be moved before\n}"
	output := fmtDefault(t, input)

	assert.Contains(t, output, "# this is a very very very long trailing comment")
	assert.Contains(t, output, "[action-with-long-name, param=\"value\"],\n")

	commentPos := strings.Index(output, "# this is a very very")
	elementPos := strings.Index(output, "[action-with-long-name")
	assert.Less(t, commentPos, elementPos, "comment should move before the element")
}

func TestPropertyActionsAlwaysMultiline(t *testing.T) {
	inputs := []string{
		"check-properties, foo=bar, baz=123",
		"set-properties, foo=bar",
		"check-child-properties, foo=bar",
		"set-child-properties, foo=bar",
		"expected-issue, issue-id=foo, level=critical",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			output := fmtDefault(t, input)
			assert.Contains(t, output, ",\n    ", "should always be multiline")
		})
	}
}

func TestQuotedExpectedIssueConverted(t *testing.T) {
	input := "meta, expected-issues={\n    \"expected-issue, issue-id=foo, level=critical\",\n}"
	output := fmtDefault(t, input)
	assert.Contains(t, output, "[expected-issue,")
	assert.NotContains(t, output, "\"expected-issue,")
}

func TestQuotedStringEscapesUnescaped(t *testing.T) {
	input := "meta, expected-issues={\n    \"expected-issue, issue-id=foo, details=\\\"test\\\\\\\\nvalue\\\"\",\n}"
	output := fmtDefault(t, input)
	assert.Contains(t, output, `details="test\\nvalue"`)
}

func TestQuotedStructureNotConvertedInArray(t *testing.T) {
	// The array-structure rewrite applies to quoted strings at field-value
	// position only; a string element inside [...] keeps its source text.
	input := `foo, issues=["expected-issue, issue-id=x, details=\"a b\""]`
	output := fmtDefault(t, input)
	assert.Equal(t, input+"\n", output)
	assert.NotContains(t, output, "[expected-issue")
}

func TestChangeSeverityConverted(t *testing.T) {
	input := "meta, overrides={\n    \"change-severity, issue-id=foo, new-severity=warning\",\n}"
	output := fmtDefault(t, input)
	assert.Contains(t, output, "[change-severity,")
}

func TestReformatRefusesParseErrors(t *testing.T) {
	_, err := Reformat("foo, x=", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")

	_, err = Reformat("a, x=[1, 2", DefaultOptions())
	require.Error(t, err)
}

func TestCustomIndentWidth(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentWidth = 2
	out, err := Reformat("check-properties, foo=bar", opts)
	require.NoError(t, err)
	assert.Contains(t, out, ",\n  foo=bar")
}

func TestLineColReporting(t *testing.T) {
	_, err := Reformat("play\nfoo, x=\n", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
