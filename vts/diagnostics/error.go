package diagnostics

import (
	"fmt"
	"io"
)

// ParseError represents a recoverable error found while lexing or parsing a
// validatetest document. The parse itself always completes; errors accumulate
// in a Diagnostics collection alongside error markers in the tree.
type ParseError struct {
	span    Span
	message string
}

// NewParseError creates a new ParseError with the given message and span.
func NewParseError(message string, span Span) ParseError {
	return ParseError{
		message: message,
		span:    span,
	}
}

// NewLexError creates an error for a byte no token pattern matches.
// The lexer consumes the offending byte and resynchronizes.
func NewLexError(b byte, span Span) ParseError {
	return NewParseError(fmt.Sprintf("Unexpected character %q.", string(b)), span)
}

// NewUnterminatedStringError creates an error reported at the opening quote
// of a string that never closes.
func NewUnterminatedStringError(span Span) ParseError {
	return NewParseError("Unterminated string literal.", span)
}

// NewUnbalancedBracketError creates an error for a bracket construct that is
// still open at end of input or at a token that cannot appear inside it.
func NewUnbalancedBracketError(open byte, span Span) ParseError {
	return NewParseError(fmt.Sprintf("Missing closing bracket for %q.", string(open)), span)
}

// NewUnexpectedTokenError creates an error for a token that matches no
// grammar alternative at the current position.
func NewUnexpectedTokenError(got, expected string, span Span) ParseError {
	return NewParseError(fmt.Sprintf("Unexpected %s, expected %s.", got, expected), span)
}

// NewMissingValueError creates an error for a field with no value after "=".
func NewMissingValueError(fieldName string, span Span) ParseError {
	return NewParseError(fmt.Sprintf("Field %q is missing a value after \"=\".", fieldName), span)
}

// Message returns the error message.
func (e ParseError) Message() string {
	return e.message
}

// Span returns the error span.
func (e ParseError) Span() Span {
	return e.span
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.message
}

// WriteTo writes the plain error message to the writer.
func (e ParseError) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "error: %s\n", e.message)
	return int64(n), err
}
