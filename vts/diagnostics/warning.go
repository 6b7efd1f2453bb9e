package diagnostics

import "fmt"

// ParseWarning represents a non-fatal peculiarity found while parsing, such
// as a construct the grammar accepts but tooling is known to mishandle.
type ParseWarning struct {
	span    Span
	message string
}

// NewParseWarning creates a new ParseWarning with the given message and span.
func NewParseWarning(message string, span Span) ParseWarning {
	return ParseWarning{
		message: message,
		span:    span,
	}
}

// NewDeepExpressionNestingWarning flags an expr(...) token containing more
// than one level of nested parentheses. The lexer balances exactly one level;
// deeper parentheses are treated as literal text.
func NewDeepExpressionNestingWarning(span Span) ParseWarning {
	return NewParseWarning("expr(...) balances only one level of nested parentheses; deeper parentheses are treated as literal text.", span)
}

// Message returns the warning message.
func (w ParseWarning) Message() string {
	return w.message
}

// Span returns the warning span.
func (w ParseWarning) Span() Span {
	return w.span
}

// String implements fmt.Stringer.
func (w ParseWarning) String() string {
	return fmt.Sprintf("warning: %s", w.message)
}
