// Package lexer provides lexical analysis for validatetest files.
package lexer

import (
	"github.com/thiblahute/validatetest-go/internal/debug"
	"github.com/thiblahute/validatetest-go/vts/diagnostics"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Special
	TokenError TokenType = iota
	TokenEOF

	// Words
	TokenIdentifier
	TokenUnquotedString
	TokenNamespacedIdentifier
	TokenFlags
	TokenBoolean

	// Literals
	TokenString
	TokenNumber
	TokenFloat
	TokenFraction
	TokenHexNumber
	TokenCliArgument
	TokenVariable
	TokenExpression

	// String interior spans
	TokenStringContent
	TokenEscapeSequence

	// Trivia
	TokenComment
	TokenLineContinuation

	// Symbols
	TokenComma
	TokenEquals
	TokenSemicolon
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle
)

// Token represents a lexical token. Start and End are byte offsets into the
// input; Value is the covered text.
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
	// NewlineBefore is set when an unescaped newline separated this token
	// from the previous one. Structures terminate on end-of-line outside
	// any open bracket, so the parser needs this bit.
	NewlineBefore bool
}

// Span returns the token's byte range.
func (t Token) Span() diagnostics.Span {
	return diagnostics.NewSpan(t.Start, t.End, diagnostics.FileIDZero)
}

// IsTrivia reports whether the token is a comment or line continuation.
func (t Token) IsTrivia() bool {
	return t.Type == TokenComment || t.Type == TokenLineContinuation
}

// IsWord reports whether the token can serve as a structure or field name.
func (t Token) IsWord() bool {
	switch t.Type {
	case TokenIdentifier, TokenUnquotedString, TokenNamespacedIdentifier:
		return true
	}
	return false
}

// Lexer tokenizes validatetest input. Unknown bytes become one-byte error
// tokens with a diagnostic; lexing never fails.
type Lexer struct {
	input          string
	pos            int
	tokens         []Token
	diags          *diagnostics.Diagnostics
	pendingNewline bool
}

// NewLexer creates a new lexer for the given input. Diagnostics accumulate
// into diags.
func NewLexer(input string, diags *diagnostics.Diagnostics) *Lexer {
	debug.Debug("Creating new lexer", "input_length", len(input))
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
		diags:  diags,
	}
}

// Tokenize converts the input into a slice of tokens. The trailing token is
// always TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for {
		l.skipSpaces()
		if l.pos >= len(l.input) {
			break
		}

		c := l.input[l.pos]
		switch {
		case c == '#':
			l.tokenizeComment()
		case c == '"':
			l.tokenizeString()
		case isDigit(c):
			l.tokenizeNumber()
		case c == '-' || c == '+':
			l.tokenizeSigned()
		case isWordStart(c):
			l.tokenizeWord()
		case c == '$':
			l.tokenizeVariable()
		default:
			l.tokenizeSymbol()
		}
	}

	l.addToken(TokenEOF, l.pos, l.pos)
	debug.Debug("Tokenization completed", "token_count", len(l.tokens))
	return l.tokens
}

// skipSpaces consumes whitespace, tracking unescaped newlines and emitting
// line continuation tokens for backslash-newline pairs.
func (l *Lexer) skipSpaces() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.pendingNewline = true
			l.pos++
		case '\\':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '\n' {
				l.addToken(TokenLineContinuation, l.pos, l.pos+2)
				l.pos += 2
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) addToken(tokenType TokenType, start, end int) {
	token := Token{
		Type:          tokenType,
		Value:         l.input[start:end],
		Start:         start,
		End:           end,
		NewlineBefore: l.pendingNewline,
	}
	l.pendingNewline = false
	l.tokens = append(l.tokens, token)
}

func (l *Lexer) errorToken(start, end int) {
	l.diags.PushError(diagnostics.NewLexError(l.input[start], diagnostics.NewSpan(start, end, diagnostics.FileIDZero)))
	l.addToken(TokenError, start, end)
}

func (l *Lexer) tokenizeComment() {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
	l.addToken(TokenComment, start, l.pos)
}

// tokenizeString consumes a double-quoted string including both delimiters.
// A backslash escapes any single byte, newlines included. An unterminated
// string is reported at the opening quote and the token runs to end of input.
func (l *Lexer) tokenizeString() {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos++
			if l.pos < len(l.input) {
				l.pos++
			}
		case '"':
			l.pos++
			l.addToken(TokenString, start, l.pos)
			return
		default:
			l.pos++
		}
	}
	l.diags.PushError(diagnostics.NewUnterminatedStringError(diagnostics.NewSpan(start, start+1, diagnostics.FileIDZero)))
	l.addToken(TokenString, start, l.pos)
}

// tokenizeSigned handles a leading '-' or '+': a number when digits follow,
// a cli_argument when a letter follows, an error token otherwise.
func (l *Lexer) tokenizeSigned() {
	c := l.input[l.pos]
	next := l.peekAt(1)
	switch {
	case isDigit(next) || (next == '.' && isDigit(l.peekAt(2))):
		l.tokenizeNumber()
	case c == '-' && l.peekAt(1) == '-' && isLetter(l.peekAt(2)):
		l.tokenizeCliArgument()
	case isLetter(next):
		l.tokenizeCliArgument()
	default:
		l.errorToken(l.pos, l.pos+1)
		l.pos++
	}
}

// tokenizeCliArgument consumes -x, --long-flag, or +positional-word forms.
func (l *Lexer) tokenizeCliArgument() {
	start := l.pos
	l.pos++ // '-' or '+'
	if l.pos < len(l.input) && l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	l.addToken(TokenCliArgument, start, l.pos)
}

// tokenizeNumber recognizes, in precedence order, hex numbers, fractions,
// floats, and plain integers.
func (l *Lexer) tokenizeNumber() {
	start := l.pos
	if l.input[l.pos] == '-' || l.input[l.pos] == '+' {
		l.pos++
	}

	if l.pos+1 < len(l.input) && l.input[l.pos] == '0' &&
		(l.input[l.pos+1] == 'x' || l.input[l.pos+1] == 'X') && isHexDigit(l.peekAt(2)) {
		l.pos += 2
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.pos++
		}
		l.addToken(TokenHexNumber, start, l.pos)
		return
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.input) && l.input[l.pos] == '/' && isDigit(l.peekAt(1)) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		l.addToken(TokenFraction, start, l.pos)
		return
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' && isDigit(l.peekAt(1)) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		l.addToken(TokenFloat, start, l.pos)
		return
	}

	l.addToken(TokenNumber, start, l.pos)
}

// tokenizeWord consumes a run starting with a letter or underscore and
// classifies it: expression, boolean, flags, namespaced identifier,
// identifier, or unquoted string fallback.
func (l *Lexer) tokenizeWord() {
	start := l.pos

	if l.hasPrefix("expr(") {
		l.tokenizeExpression()
		return
	}

	// Strict word segment first: structure/field-name identifiers.
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]

	if (word == "true" || word == "false") && !l.nextIsLooseChar() {
		l.addToken(TokenBoolean, start, l.pos)
		return
	}

	// word(+word)+ lexes as one flags token.
	if l.pos < len(l.input) && l.input[l.pos] == '+' && isWordStart(l.peekAt(1)) {
		for l.pos < len(l.input) && l.input[l.pos] == '+' && isWordStart(l.peekAt(1)) {
			l.pos++
			for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
				l.pos++
			}
		}
		l.addToken(TokenFlags, start, l.pos)
		return
	}

	// Loose continuation: unquoted strings additionally permit '/' for caps
	// media types and '.'/':' for paths and namespaced names.
	loose := false
	for l.pos < len(l.input) && isLooseChar(l.input[l.pos]) {
		loose = true
		l.pos++
	}

	text := l.input[start:l.pos]
	switch {
	case containsNamespaceSep(text):
		l.addToken(TokenNamespacedIdentifier, start, l.pos)
	case loose:
		l.addToken(TokenUnquotedString, start, l.pos)
	default:
		l.addToken(TokenIdentifier, start, l.pos)
	}
}

// tokenizeExpression consumes an expr(...) token. Exactly one level of
// nested parentheses is balanced; deeper parentheses are literal text and a
// warning is recorded, since the behavior for them is a known limitation.
func (l *Lexer) tokenizeExpression() {
	start := l.pos
	l.pos += len("expr(")

	nested := false
	warned := false
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '(':
			if nested && !warned {
				l.diags.PushWarning(diagnostics.NewDeepExpressionNestingWarning(
					diagnostics.NewSpan(start, l.pos+1, diagnostics.FileIDZero)))
				warned = true
			}
			nested = true
		case ')':
			if !nested {
				l.pos++
				l.addToken(TokenExpression, start, l.pos)
				return
			}
			nested = false
		}
		l.pos++
	}

	l.diags.PushError(diagnostics.NewUnbalancedBracketError('(', diagnostics.NewSpan(start, start+len("expr("), diagnostics.FileIDZero)))
	l.addToken(TokenExpression, start, l.pos)
}

// tokenizeVariable consumes a $(name) or $(name.sub) reference. A '$' not
// followed by a well-formed reference is an error token at this level; only
// string interiors treat it as a literal.
func (l *Lexer) tokenizeVariable() {
	start := l.pos
	end, ok := ScanVariable(l.input, l.pos)
	if !ok {
		l.errorToken(start, start+1)
		l.pos++
		return
	}
	l.pos = end
	l.addToken(TokenVariable, start, l.pos)
}

func (l *Lexer) tokenizeSymbol() {
	var tokenType TokenType
	switch l.input[l.pos] {
	case ',':
		tokenType = TokenComma
	case '=':
		tokenType = TokenEquals
	case ';':
		tokenType = TokenSemicolon
	case '[':
		tokenType = TokenLBracket
	case ']':
		tokenType = TokenRBracket
	case '{':
		tokenType = TokenLBrace
	case '}':
		tokenType = TokenRBrace
	case '(':
		tokenType = TokenLParen
	case ')':
		tokenType = TokenRParen
	case '<':
		tokenType = TokenLAngle
	case '>':
		tokenType = TokenRAngle
	default:
		l.errorToken(l.pos, l.pos+1)
		l.pos++
		return
	}
	l.addToken(tokenType, l.pos, l.pos+1)
	l.pos++
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) hasPrefix(prefix string) bool {
	return l.pos+len(prefix) <= len(l.input) && l.input[l.pos:l.pos+len(prefix)] == prefix
}

func (l *Lexer) nextIsLooseChar() bool {
	return l.pos < len(l.input) && (isLooseChar(l.input[l.pos]) || l.input[l.pos] == '+')
}

// ScanVariable matches a $(name(.sub)*) reference starting at pos. Returns
// the end offset past the closing parenthesis.
func ScanVariable(input string, pos int) (int, bool) {
	i := pos
	if i+1 >= len(input) || input[i] != '$' || input[i+1] != '(' {
		return pos, false
	}
	i += 2
	if i >= len(input) || !isWordStart(input[i]) {
		return pos, false
	}
	i++
	for i < len(input) && (isIdentChar(input[i]) || input[i] == '.') {
		if input[i] == '.' {
			if i+1 >= len(input) || !isIdentChar(input[i+1]) {
				return pos, false
			}
		}
		i++
	}
	if i >= len(input) || input[i] != ')' {
		return pos, false
	}
	return i + 1, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordStart(c byte) bool {
	return isLetter(c) || c == '_'
}

// isIdentChar covers the strict identifier charset used for structure and
// field names.
func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// isWordChar additionally allows '-', common in action names.
func isWordChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

// isLooseChar covers the wider unquoted_string charset.
func isLooseChar(c byte) bool {
	return isWordChar(c) || c == '/' || c == '.' || c == ':'
}

func containsNamespaceSep(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			return true
		}
	}
	return false
}
