package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanBody(t *testing.T, body string) []InteriorSpan {
	t.Helper()
	spans := ScanInterior(body, 0, len(body))
	// Total coverage: spans tile the body with no gaps or overlaps.
	pos := 0
	for _, s := range spans {
		require.Equal(t, pos, s.Start)
		require.Greater(t, s.End, s.Start)
		pos = s.End
	}
	require.Equal(t, len(body), pos)
	return spans
}

func TestScanInteriorPlainContent(t *testing.T) {
	spans := scanBody(t, "hello world")
	require.Len(t, spans, 1)
	assert.Equal(t, TokenStringContent, spans[0].Type)
}

func TestScanInteriorEscapes(t *testing.T) {
	spans := scanBody(t, `a \" b \\ c`)
	types := make([]TokenType, len(spans))
	for i, s := range spans {
		types[i] = s.Type
	}
	assert.Equal(t, []TokenType{
		TokenStringContent, TokenEscapeSequence,
		TokenStringContent, TokenEscapeSequence,
		TokenStringContent,
	}, types)
}

func TestScanInteriorVariable(t *testing.T) {
	body := "position is $(position) now"
	spans := scanBody(t, body)
	require.Len(t, spans, 3)
	assert.Equal(t, TokenVariable, spans[1].Type)
	assert.Equal(t, "$(position)", body[spans[1].Start:spans[1].End])
}

func TestScanInteriorLoneDollarIsLiteral(t *testing.T) {
	spans := scanBody(t, "costs $5")
	require.Len(t, spans, 1)
	assert.Equal(t, TokenStringContent, spans[0].Type)
}

func TestScanInteriorExpression(t *testing.T) {
	body := "seek to expr($(duration)/2) please"
	spans := scanBody(t, body)
	require.Len(t, spans, 3)
	assert.Equal(t, TokenExpression, spans[1].Type)
	assert.Equal(t, "expr($(duration)/2)", body[spans[1].Start:spans[1].End])
}

func TestScanInteriorUnterminatedExpressionRunsToEnd(t *testing.T) {
	body := "x expr(1+2"
	spans := scanBody(t, body)
	last := spans[len(spans)-1]
	assert.Equal(t, TokenExpression, last.Type)
	assert.Equal(t, len(body), last.End)
}

func TestScanInteriorEscapeAtEnd(t *testing.T) {
	spans := scanBody(t, `abc\`)
	last := spans[len(spans)-1]
	assert.Equal(t, TokenEscapeSequence, last.Type)
}
