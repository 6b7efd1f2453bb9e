// Package parsing provides the main API for parsing validatetest documents.
package parsing

import (
	"github.com/thiblahute/validatetest-go/internal/debug"
	"github.com/thiblahute/validatetest-go/vts/diagnostics"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
	"github.com/thiblahute/validatetest-go/vts/parsing/lexer"
)

// fieldListMode selects the termination rules for a field list, which differ
// between top-level structures, array structures, and block structures.
type fieldListMode int

const (
	modeTop fieldListMode = iota
	modeArray
	modeBlock
)

// Parser parses validatetest tokens into a concrete syntax tree.
type Parser struct {
	tokens      []lexer.Token
	pos         int
	source      string
	diagnostics *diagnostics.Diagnostics
	extras      []*cst.Node
}

// NewParser creates a new parser for the given tokens.
func NewParser(source string, tokens []lexer.Token, diags *diagnostics.Diagnostics) *Parser {
	p := &Parser{
		tokens:      tokens,
		source:      source,
		diagnostics: diags,
	}
	p.skimTrivia()
	return p
}

// Parse parses the whole token stream into a source_file tree. The parse is
// total: malformed regions become ERROR nodes and every token ends up in the
// tree, so the root span always covers the entire input.
func (p *Parser) Parse() *cst.Tree {
	b := cst.NewBuilder(cst.KindSourceFile)
	b.SetSpan(diagnostics.NewSpan(0, len(p.source), diagnostics.FileIDZero))

	for !p.isAtEnd() {
		p.flushExtras(b)
		if p.isAtEnd() {
			break
		}

		if p.atStructureStart() {
			b.Add(p.parseStructure())
		} else {
			b.Add(p.recoverError("a structure"))
		}
	}
	p.flushExtras(b)

	root := b.Finish()
	debug.Debug("Parse completed", "children", root.ChildCount(), "errors", len(p.diagnostics.Errors()))
	return cst.NewTree(root, p.source)
}

// atStructureStart reports whether the current token can open a structure:
// a bare word or a variable reference at statement position.
func (p *Parser) atStructureStart() bool {
	t := p.current()
	return t.IsWord() || t.Type == lexer.TokenVariable
}

// parseStructure parses one top-level structure. Structures terminate on
// ";", on end-of-line outside any open bracket, or on end of input.
func (p *Parser) parseStructure() *cst.Node {
	b := cst.NewBuilder(cst.KindStructure)

	name := cst.NewBuilder(cst.KindStructureName).Add(p.leaf(p.advance())).Finish()
	b.Add(name)

	if p.check(lexer.TokenComma) {
		b.Add(p.leaf(p.advance()))
		b.Add(p.parseFieldList(modeTop))
	}

	if p.check(lexer.TokenSemicolon) {
		b.Add(p.leaf(p.advance()))
	}

	return b.Finish()
}

// parseFieldList parses Field ("," Field)* ","? with mode-dependent
// termination. Commas between fields and the optional trailing comma belong
// to the field list node.
func (p *Parser) parseFieldList(mode fieldListMode) *cst.Node {
	b := cst.NewBuilder(cst.KindFieldList)

	for {
		p.flushExtras(b)

		if !p.atFieldStart() {
			if b.Empty() {
				b.Add(p.recoverError("a field"))
			}
			break
		}

		b.Add(p.parseField(mode))

		p.flushExtras(b)

		if p.check(lexer.TokenComma) {
			if p.atFieldStartAfterComma() {
				b.Add(p.leaf(p.advance()))
				continue
			}
			if mode == modeArray || mode == modeBlock {
				// The comma separates elements of the enclosing
				// construct; leave it there.
				break
			}
			// Trailing comma.
			b.Add(p.leaf(p.advance()))
			break
		}

		// A field starting on the same line without a separating comma is
		// a recoverable mistake.
		if p.atFieldStart() && !p.current().NewlineBefore {
			p.diagnostics.PushError(diagnostics.NewUnexpectedTokenError(
				p.describe(p.current()), "\",\"", p.current().Span()))
			continue
		}
		break
	}

	return b.Finish()
}

// atFieldStart reports whether the current token opens a field: a word
// followed by "=".
func (p *Parser) atFieldStart() bool {
	return p.current().IsWord() && p.peek(1).Type == lexer.TokenEquals
}

// atFieldStartAfterComma looks past the current comma.
func (p *Parser) atFieldStartAfterComma() bool {
	return p.peek(1).IsWord() && p.peek(2).Type == lexer.TokenEquals
}

// parseField parses name "=" value. A missing value yields a field with an
// error marker in place of the value plus a diagnostic at that position.
func (p *Parser) parseField(mode fieldListMode) *cst.Node {
	b := cst.NewBuilder(cst.KindField)

	nameTok := p.advance()
	b.AddField(cst.FieldOfName, p.buildFieldName(nameTok))

	if !p.check(lexer.TokenEquals) {
		p.diagnostics.PushError(diagnostics.NewUnexpectedTokenError(
			p.describe(p.current()), "\"=\"", p.current().Span()))
		return b.MarkError().Finish()
	}
	b.Add(p.leaf(p.advance()))

	if p.atValueEnd(mode) {
		pos := p.current().Start
		p.diagnostics.PushError(diagnostics.NewMissingValueError(
			nameTok.Value, diagnostics.NewSpan(pos, pos, diagnostics.FileIDZero)))
		missing := cst.NewBuilder(cst.KindError).
			SetSpan(diagnostics.NewSpan(pos, pos, diagnostics.FileIDZero)).
			MarkError().Finish()
		b.AddField(cst.FieldOfValue, missing)
		return b.MarkError().Finish()
	}

	b.AddField(cst.FieldOfValue, p.parseFieldValue(mode))
	return b.Finish()
}

// atValueEnd reports whether the current token cannot begin a field value.
func (p *Parser) atValueEnd(mode fieldListMode) bool {
	t := p.current()
	switch t.Type {
	case lexer.TokenEOF, lexer.TokenSemicolon, lexer.TokenComma,
		lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenRAngle:
		return true
	}
	return mode == modeTop && t.NewlineBefore
}

// buildFieldName wraps the name token. Names containing "::" become
// property paths with identifier segments; everything else is a plain
// field name.
func (p *Parser) buildFieldName(tok lexer.Token) *cst.Node {
	if tok.Type == lexer.TokenNamespacedIdentifier {
		return p.buildPropertyPath(tok)
	}
	return cst.NewBuilder(cst.KindFieldName).Add(p.leaf(tok)).Finish()
}

// buildPropertyPath splits element(.pad)?(::prop)+ into identifier leaves
// and punctuation leaves, all addressed inside the original token span.
func (p *Parser) buildPropertyPath(tok lexer.Token) *cst.Node {
	b := cst.NewBuilder(cst.KindPropertyPath)
	text := tok.Value
	base := tok.Start

	emitSegment := func(start, end int) {
		// A leading element.pad prefix keeps its dot as punctuation.
		seg := text[start:end]
		segBase := base + start
		for i := 0; i < len(seg); {
			dot := indexByte(seg, '.', i)
			if dot < 0 {
				b.Add(cst.NewLeaf(cst.KindIdentifier, diagnostics.NewSpan(segBase+i, segBase+len(seg), diagnostics.FileIDZero)))
				break
			}
			b.Add(cst.NewLeaf(cst.KindIdentifier, diagnostics.NewSpan(segBase+i, segBase+dot, diagnostics.FileIDZero)))
			b.Add(cst.NewLeaf(cst.KindDot, diagnostics.NewSpan(segBase+dot, segBase+dot+1, diagnostics.FileIDZero)))
			i = dot + 1
		}
	}

	i := 0
	for {
		sep := indexNamespaceSep(text, i)
		if sep < 0 {
			emitSegment(i, len(text))
			break
		}
		emitSegment(i, sep)
		b.Add(cst.NewLeaf(cst.KindColon, diagnostics.NewSpan(base+sep, base+sep+1, diagnostics.FileIDZero)))
		b.Add(cst.NewLeaf(cst.KindColon, diagnostics.NewSpan(base+sep+1, base+sep+2, diagnostics.FileIDZero)))
		i = sep + 2
	}

	return b.Finish()
}

// parseFieldValue dispatches on the current token: typed value, array,
// angle bracket array, nested block, or scalar value.
func (p *Parser) parseFieldValue(mode fieldListMode) *cst.Node {
	b := cst.NewBuilder(cst.KindFieldValue)

	switch p.current().Type {
	case lexer.TokenLParen:
		b.Add(p.parseTypedValue())
	case lexer.TokenLBracket:
		b.Add(p.parseArray())
	case lexer.TokenLAngle:
		b.Add(p.parseAngleBracketArray())
	case lexer.TokenLBrace:
		b.Add(p.parseNestedBlock())
	default:
		b.Add(p.parseScalarValue())
	}

	return b.Finish()
}

// parseTypedValue parses "(" type ")" payload, where the payload may be a
// scalar, an array, or an angle bracket array.
func (p *Parser) parseTypedValue() *cst.Node {
	b := cst.NewBuilder(cst.KindTypedValue)
	b.Add(p.leaf(p.advance())) // "("

	if p.current().IsWord() {
		tok := p.advance()
		typeName := cst.NewBuilder(cst.KindTypeName).Add(p.leaf(tok)).Finish()
		b.AddField(cst.FieldOfType, typeName)
	} else {
		p.diagnostics.PushError(diagnostics.NewUnexpectedTokenError(
			p.describe(p.current()), "a type name", p.current().Span()))
		b.MarkError()
	}

	if p.check(lexer.TokenRParen) {
		b.Add(p.leaf(p.advance()))
	} else {
		p.diagnostics.PushError(diagnostics.NewUnbalancedBracketError('(', b.Finish().Span()))
		return b.MarkError().Finish()
	}

	switch p.current().Type {
	case lexer.TokenLBracket:
		b.AddField(cst.FieldOfValue, p.parseArray())
	case lexer.TokenLAngle:
		b.AddField(cst.FieldOfValue, p.parseAngleBracketArray())
	case lexer.TokenEOF, lexer.TokenSemicolon, lexer.TokenComma,
		lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenRAngle:
		b.MarkError()
	default:
		b.AddField(cst.FieldOfValue, p.parseScalarValue())
	}

	return b.Finish()
}

// parseScalarValue wraps one value token in a value node. At value
// position the strict identifier set collapses into unquoted_string.
func (p *Parser) parseScalarValue() *cst.Node {
	tok := p.advance()
	return cst.NewBuilder(cst.KindValue).Add(p.valueLeaf(tok)).Finish()
}

// parseArray parses "[" array_element* "]". Bare words inside an array
// always open an array structure, never a raw unquoted string.
func (p *Parser) parseArray() *cst.Node {
	b := cst.NewBuilder(cst.KindArray)
	open := p.advance()
	b.Add(p.leaf(open))

	for {
		p.flushExtras(b)
		switch p.current().Type {
		case lexer.TokenRBracket:
			b.Add(p.leaf(p.advance()))
			return b.Finish()
		case lexer.TokenEOF, lexer.TokenRBrace, lexer.TokenRAngle, lexer.TokenSemicolon:
			p.diagnostics.PushError(diagnostics.NewUnbalancedBracketError('[', open.Span()))
			return b.MarkError().Finish()
		}
		b.Add(p.parseArrayElement())
	}
}

// parseArrayElement parses one element plus its optional trailing comma.
func (p *Parser) parseArrayElement() *cst.Node {
	b := cst.NewBuilder(cst.KindArrayElement)

	if p.current().IsWord() {
		b.Add(p.parseArrayStructure())
	} else {
		b.Add(p.parseArrayValue())
	}

	p.flushExtras(b)
	if p.check(lexer.TokenComma) {
		b.Add(p.leaf(p.advance()))
	}

	return b.Finish()
}

// parseArrayStructure parses an action name optionally followed by its own
// comma-led field list.
func (p *Parser) parseArrayStructure() *cst.Node {
	b := cst.NewBuilder(cst.KindArrayStructure)

	name := cst.NewBuilder(cst.KindStructureName).Add(p.leaf(p.advance())).Finish()
	b.Add(name)

	if p.check(lexer.TokenComma) && p.atFieldStartAfterComma() {
		b.Add(p.leaf(p.advance()))
		b.Add(p.parseFieldList(modeArray))
	}

	return b.Finish()
}

// parseArrayValue parses a non-structure array element: a scalar or a
// typed value.
func (p *Parser) parseArrayValue() *cst.Node {
	b := cst.NewBuilder(cst.KindArrayValue)

	switch p.current().Type {
	case lexer.TokenLParen:
		b.Add(p.parseTypedValue())
	case lexer.TokenLBracket:
		b.Add(p.parseArray())
	case lexer.TokenLAngle:
		b.Add(p.parseAngleBracketArray())
	case lexer.TokenLBrace:
		b.Add(p.parseNestedBlock())
	default:
		b.Add(p.parseScalarValue())
	}

	return b.Finish()
}

// parseAngleBracketArray parses "<" field_value ("," field_value)* ","? ">".
func (p *Parser) parseAngleBracketArray() *cst.Node {
	b := cst.NewBuilder(cst.KindAngleBracketArray)
	open := p.advance()
	b.Add(p.leaf(open))

	for {
		p.flushExtras(b)
		switch p.current().Type {
		case lexer.TokenRAngle:
			b.Add(p.leaf(p.advance()))
			return b.Finish()
		case lexer.TokenEOF, lexer.TokenRBrace, lexer.TokenRBracket, lexer.TokenSemicolon:
			p.diagnostics.PushError(diagnostics.NewUnbalancedBracketError('<', open.Span()))
			return b.MarkError().Finish()
		case lexer.TokenComma:
			b.Add(p.leaf(p.advance()))
		default:
			b.Add(p.parseFieldValue(modeBlock))
		}
	}
}

// parseNestedBlock parses "{" (comment | (structure | field_value) ","?)* "}".
// A word opens a block structure only when a comma-led field list follows;
// a standalone word is a plain value, as in meta args={-t, video, fakesink}.
func (p *Parser) parseNestedBlock() *cst.Node {
	b := cst.NewBuilder(cst.KindNestedStructureBlock)
	open := p.advance()
	b.Add(p.leaf(open))

	for {
		p.flushExtras(b)
		switch p.current().Type {
		case lexer.TokenRBrace:
			b.Add(p.leaf(p.advance()))
			return b.Finish()
		case lexer.TokenEOF, lexer.TokenRBracket, lexer.TokenRAngle:
			p.diagnostics.PushError(diagnostics.NewUnbalancedBracketError('{', open.Span()))
			return b.MarkError().Finish()
		case lexer.TokenComma:
			b.Add(p.leaf(p.advance()))
			continue
		}

		if p.atBlockStructureStart() {
			b.Add(p.parseBlockStructure())
		} else {
			b.Add(p.parseFieldValue(modeBlock))
		}
	}
}

// atBlockStructureStart distinguishes a structure item from a bare value
// item inside a nested block: a word followed by a comma-led field list or
// by a semicolon.
func (p *Parser) atBlockStructureStart() bool {
	if !p.current().IsWord() {
		return false
	}
	if p.peek(1).Type == lexer.TokenSemicolon {
		return true
	}
	return p.peek(1).Type == lexer.TokenComma &&
		p.peek(2).IsWord() && p.peek(3).Type == lexer.TokenEquals
}

// parseBlockStructure parses a structure item inside a nested block.
func (p *Parser) parseBlockStructure() *cst.Node {
	b := cst.NewBuilder(cst.KindStructure)

	name := cst.NewBuilder(cst.KindStructureName).Add(p.leaf(p.advance())).Finish()
	b.Add(name)

	if p.check(lexer.TokenComma) && p.atFieldStartAfterComma() {
		b.Add(p.leaf(p.advance()))
		b.Add(p.parseFieldList(modeBlock))
	}

	if p.check(lexer.TokenSemicolon) {
		b.Add(p.leaf(p.advance()))
	}

	return b.Finish()
}

// recoverError consumes tokens that cannot continue the current production
// into an ERROR node, stopping before the next token that can plausibly
// resume a structure: a word or variable at statement position, or just
// after a semicolon. Previously parsed siblings are never discarded.
func (p *Parser) recoverError(expected string) *cst.Node {
	first := p.current()
	p.diagnostics.PushError(diagnostics.NewUnexpectedTokenError(
		p.describe(first), expected, first.Span()))

	b := cst.NewBuilder(cst.KindError).MarkError()
	b.Add(p.leaf(p.advance()))

	for !p.isAtEnd() {
		t := p.current()
		if t.Type == lexer.TokenSemicolon {
			b.Add(p.leaf(p.advance()))
			break
		}
		if (t.IsWord() || t.Type == lexer.TokenVariable) && t.NewlineBefore {
			break
		}
		b.Add(p.leaf(p.advance()))
	}

	return b.Finish()
}

// Helper methods

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[p.pos]
}

// peek returns the n-th non-trivia token after the current one.
func (p *Parser) peek(n int) lexer.Token {
	i := p.pos
	for n > 0 && i < len(p.tokens) {
		i++
		for i < len(p.tokens) && p.tokens[i].IsTrivia() {
			i++
		}
		n--
	}
	if i >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[i]
}

// advance returns the current token and moves past it, stashing any trivia
// that follows as pending extra nodes.
func (p *Parser) advance() lexer.Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	p.skimTrivia()
	return t
}

// skimTrivia collects comments and line continuations into the pending
// extras list so they attach to whatever node is built next.
func (p *Parser) skimTrivia() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].IsTrivia() {
		p.extras = append(p.extras, p.leaf(p.tokens[p.pos]))
		p.pos++
	}
}

// flushExtras attaches pending trivia nodes to the given builder.
func (p *Parser) flushExtras(b *cst.Builder) {
	for _, extra := range p.extras {
		b.Add(extra)
	}
	p.extras = p.extras[:0]
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.current().Type == lexer.TokenEOF
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current().Type == tokenType
}

// leaf converts a token into a leaf node at name/structural position.
func (p *Parser) leaf(tok lexer.Token) *cst.Node {
	return cst.NewLeaf(leafKind(tok.Type), tok.Span())
}

// valueLeaf converts a token into a leaf node at value position, where a
// strict identifier is just an unquoted string.
func (p *Parser) valueLeaf(tok lexer.Token) *cst.Node {
	kind := leafKind(tok.Type)
	if kind == cst.KindIdentifier {
		kind = cst.KindUnquotedString
	}
	return cst.NewLeaf(kind, tok.Span())
}

func (p *Parser) describe(t lexer.Token) string {
	if t.Type == lexer.TokenEOF {
		return "end of input"
	}
	return "\"" + t.Value + "\""
}

var leafKinds = map[lexer.TokenType]cst.Kind{
	lexer.TokenError:                cst.KindError,
	lexer.TokenIdentifier:           cst.KindIdentifier,
	lexer.TokenUnquotedString:       cst.KindUnquotedString,
	lexer.TokenNamespacedIdentifier: cst.KindNamespacedIdentifier,
	lexer.TokenFlags:                cst.KindFlags,
	lexer.TokenBoolean:              cst.KindBoolean,
	lexer.TokenString:               cst.KindString,
	lexer.TokenNumber:               cst.KindNumber,
	lexer.TokenFloat:                cst.KindFloat,
	lexer.TokenFraction:             cst.KindFraction,
	lexer.TokenHexNumber:            cst.KindHexNumber,
	lexer.TokenCliArgument:          cst.KindCliArgument,
	lexer.TokenVariable:             cst.KindVariable,
	lexer.TokenExpression:           cst.KindExpression,
	lexer.TokenComment:              cst.KindComment,
	lexer.TokenLineContinuation:     cst.KindLineContinuation,
	lexer.TokenComma:                cst.KindComma,
	lexer.TokenEquals:               cst.KindEquals,
	lexer.TokenSemicolon:            cst.KindSemicolon,
	lexer.TokenLBracket:             cst.KindLBracket,
	lexer.TokenRBracket:             cst.KindRBracket,
	lexer.TokenLBrace:               cst.KindLBrace,
	lexer.TokenRBrace:               cst.KindRBrace,
	lexer.TokenLParen:               cst.KindLParen,
	lexer.TokenRParen:               cst.KindRParen,
	lexer.TokenLAngle:               cst.KindLAngle,
	lexer.TokenRAngle:               cst.KindRAngle,
}

func leafKind(t lexer.TokenType) cst.Kind {
	if k, ok := leafKinds[t]; ok {
		return k
	}
	return cst.KindError
}

func indexByte(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func indexNamespaceSep(s string, from int) int {
	for i := from; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			return i
		}
	}
	return -1
}
