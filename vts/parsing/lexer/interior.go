package lexer

import "github.com/thiblahute/validatetest-go/vts/diagnostics"

// InteriorSpan is one span of a string body: a literal run
// (TokenStringContent), an escape sequence, a variable reference, or an
// embedded expression.
type InteriorSpan struct {
	Type  TokenType
	Start int
	End   int
}

// Span returns the byte range of the interior span.
func (s InteriorSpan) Span() diagnostics.Span {
	return diagnostics.NewSpan(s.Start, s.End, diagnostics.FileIDZero)
}

// ScanInterior splits the body of a double-quoted string (the bytes between
// the delimiters, addressed by absolute offsets start..end into input) into
// an ordered sequence of spans. The literal-run fallback guarantees total
// coverage; this scan never fails on a well-formed string body.
func ScanInterior(input string, start, end int) []InteriorSpan {
	var spans []InteriorSpan
	if end > len(input) {
		end = len(input)
	}

	runStart := -1
	flushRun := func(upto int) {
		if runStart >= 0 && upto > runStart {
			spans = append(spans, InteriorSpan{Type: TokenStringContent, Start: runStart, End: upto})
		}
		runStart = -1
	}

	i := start
	for i < end {
		c := input[i]
		switch {
		case c == '\\':
			flushRun(i)
			seqEnd := i + 2
			if seqEnd > end {
				seqEnd = end
			}
			spans = append(spans, InteriorSpan{Type: TokenEscapeSequence, Start: i, End: seqEnd})
			i = seqEnd
		case c == 'e' && hasPrefixAt(input, i, end, "expr("):
			flushRun(i)
			exprEnd := scanInteriorExpression(input, i, end)
			spans = append(spans, InteriorSpan{Type: TokenExpression, Start: i, End: exprEnd})
			i = exprEnd
		case c == '$':
			if varEnd, ok := ScanVariable(input[:end], i); ok {
				flushRun(i)
				spans = append(spans, InteriorSpan{Type: TokenVariable, Start: i, End: varEnd})
				i = varEnd
			} else {
				// Lone '$' is literal.
				if runStart < 0 {
					runStart = i
				}
				i++
			}
		default:
			if runStart < 0 {
				runStart = i
			}
			i++
		}
	}
	flushRun(end)

	return spans
}

// scanInteriorExpression consumes expr(...) inside a string body with the
// same one-level parenthesis balancing as the main lexer. An unterminated
// expression runs to the end of the body.
func scanInteriorExpression(input string, pos, end int) int {
	i := pos + len("expr(")
	nested := false
	for i < end {
		switch input[i] {
		case '(':
			nested = true
		case ')':
			if !nested {
				return i + 1
			}
			nested = false
		}
		i++
	}
	return end
}

func hasPrefixAt(input string, pos, end int, prefix string) bool {
	return pos+len(prefix) <= end && input[pos:pos+len(prefix)] == prefix
}
