package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/validatetest-go/vts/diagnostics"
)

func tokenize(t *testing.T, input string) ([]Token, diagnostics.Diagnostics) {
	t.Helper()
	diags := diagnostics.NewDiagnostics()
	tokens := NewLexer(input, &diags).Tokenize()
	require.NotEmpty(t, tokens)
	require.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
	return tokens[:len(tokens)-1], diags
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeBasicStructure(t *testing.T) {
	tokens, diags := tokenize(t, "seek, start=0.0, flags=accurate+flush")
	assert.False(t, diags.HasErrors())
	assert.Equal(t, []TokenType{
		TokenIdentifier, TokenComma,
		TokenIdentifier, TokenEquals, TokenFloat, TokenComma,
		TokenIdentifier, TokenEquals, TokenFlags,
	}, tokenTypes(tokens))
	assert.Equal(t, "accurate+flush", tokens[8].Value)
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"42", TokenNumber},
		{"-42", TokenNumber},
		{"+7", TokenNumber},
		{"1.5", TokenFloat},
		{"-0.25", TokenFloat},
		{"30/1", TokenFraction},
		{"0xdeadBEEF", TokenHexNumber},
		{"0X1F", TokenHexNumber},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, diags := tokenize(t, tt.input)
			assert.False(t, diags.HasErrors())
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.want, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Value)
		})
	}
}

func TestTokenizeFractionBeatsDivision(t *testing.T) {
	// 30/1 is one fraction token, never number-slash-number.
	tokens, _ := tokenize(t, "framerate=30/1")
	assert.Equal(t, []TokenType{TokenIdentifier, TokenEquals, TokenFraction}, tokenTypes(tokens))
}

func TestTokenizeBooleans(t *testing.T) {
	tokens, _ := tokenize(t, "a=true, b=false")
	assert.Equal(t, TokenBoolean, tokens[2].Type)
	assert.Equal(t, TokenBoolean, tokens[6].Type)

	// A longer word containing "true" is not a boolean.
	tokens, _ = tokenize(t, "x=truely")
	assert.Equal(t, TokenIdentifier, tokens[2].Type)

	// A loose continuation defeats the boolean too.
	tokens, _ = tokenize(t, "x=true/false")
	assert.Equal(t, TokenUnquotedString, tokens[2].Type)
}

func TestTokenizeCliArguments(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{"-t", "-t"},
		{"--set-media-info", "--set-media-info"},
		{"+test-clip", "+test-clip"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, diags := tokenize(t, tt.input)
			assert.False(t, diags.HasErrors())
			require.Len(t, tokens, 1)
			assert.Equal(t, TokenCliArgument, tokens[0].Type)
			assert.Equal(t, tt.value, tokens[0].Value)
		})
	}
}

func TestTokenizeNamespacedIdentifier(t *testing.T) {
	tokens, _ := tokenize(t, "scenario::execution-error")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenNamespacedIdentifier, tokens[0].Type)

	tokens, _ = tokenize(t, "element.pad::prop=1")
	assert.Equal(t, []TokenType{TokenNamespacedIdentifier, TokenEquals, TokenNumber}, tokenTypes(tokens))
	assert.Equal(t, "element.pad::prop", tokens[0].Value)
}

func TestTokenizeUnquotedStrings(t *testing.T) {
	tests := []string{"video/x-raw", "some.file.name", "path:part"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, _ := tokenize(t, input)
			require.Len(t, tokens, 1)
			assert.Equal(t, TokenUnquotedString, tokens[0].Type)
		})
	}
}

func TestTokenizeString(t *testing.T) {
	tokens, diags := tokenize(t, `name="a \" b"`)
	assert.False(t, diags.HasErrors())
	assert.Equal(t, []TokenType{TokenIdentifier, TokenEquals, TokenString}, tokenTypes(tokens))
	assert.Equal(t, `"a \" b"`, tokens[2].Value)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tokens, diags := tokenize(t, `name="never ends`)
	require.True(t, diags.HasErrors())
	// The token still covers everything to end of input.
	last := tokens[len(tokens)-1]
	assert.Equal(t, TokenString, last.Type)
	assert.Equal(t, len(`name="never ends`), last.End)
	// The diagnostic points at the opening quote.
	assert.Equal(t, 5, diags.Errors()[0].Span().Start)
}

func TestTokenizeVariable(t *testing.T) {
	tokens, diags := tokenize(t, "pos=$(position)")
	assert.False(t, diags.HasErrors())
	assert.Equal(t, TokenVariable, tokens[2].Type)

	tokens, diags = tokenize(t, "pos=$(a.b.c)")
	assert.False(t, diags.HasErrors())
	assert.Equal(t, TokenVariable, tokens[2].Type)
	assert.Equal(t, "$(a.b.c)", tokens[2].Value)

	// A bare '$' is an error token outside strings.
	_, diags = tokenize(t, "pos=$")
	assert.True(t, diags.HasErrors())
}

func TestTokenizeExpression(t *testing.T) {
	tokens, diags := tokenize(t, "start=expr($(duration)/2)")
	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.Warnings())
	assert.Equal(t, TokenExpression, tokens[2].Type)
	assert.Equal(t, "expr($(duration)/2)", tokens[2].Value)
}

func TestTokenizeExpressionDeepNestingWarns(t *testing.T) {
	// Only one level of parentheses balances; deeper nesting is a known
	// limitation and gets a warning.
	_, diags := tokenize(t, "start=expr(((1)))")
	assert.NotEmpty(t, diags.Warnings())
}

func TestTokenizeExpressionUnterminated(t *testing.T) {
	_, diags := tokenize(t, "start=expr(1+2")
	assert.True(t, diags.HasErrors())
}

func TestTokenizeTrivia(t *testing.T) {
	tokens, _ := tokenize(t, "# a comment\nplay")
	assert.Equal(t, []TokenType{TokenComment, TokenIdentifier}, tokenTypes(tokens))
	assert.True(t, tokens[1].NewlineBefore)

	tokens, _ = tokenize(t, "seek, start=0.0, \\\n  stop=1.0")
	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, TokenLineContinuation)
	// The continuation hides the newline from the next token.
	last := tokens[len(tokens)-1]
	assert.False(t, last.NewlineBefore)
}

func TestTokenizeNewlineBefore(t *testing.T) {
	tokens, _ := tokenize(t, "play\npause")
	require.Len(t, tokens, 2)
	assert.False(t, tokens[0].NewlineBefore)
	assert.True(t, tokens[1].NewlineBefore)
}

func TestTokenizeLexError(t *testing.T) {
	tokens, diags := tokenize(t, "a=1 @ b=2")
	require.True(t, diags.HasErrors())
	// The error consumes one byte and lexing resynchronizes.
	assert.Equal(t, []TokenType{
		TokenIdentifier, TokenEquals, TokenNumber,
		TokenError,
		TokenIdentifier, TokenEquals, TokenNumber,
	}, tokenTypes(tokens))
}

func TestTokenizeSpansCoverTokens(t *testing.T) {
	input := `seek, start=0.0, flags=accurate+flush, caps="video/x-raw"`
	tokens, _ := tokenize(t, input)
	for _, tok := range tokens {
		assert.Equal(t, input[tok.Start:tok.End], tok.Value)
	}
}
