// Package parser implements a recursive-descent parser for ECMAScript
// edition 3 source text, producing the internal/ast tree the compiler
// consumes. It implements automatic semicolon insertion (ed.3 §7.9),
// restricted productions, break/continue labelset validation, and
// function-level var/function hoisting during the single parse pass
// rather than as a separate tree walk.
package parser

import (
	"fmt"

	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/errors"
	"github.com/go-ecma3/ecma3/internal/lexer"
	"github.com/go-ecma3/ecma3/internal/token"
)

// Parser holds one token of lookahead plus a one-slot pushback buffer, so
// a caller can peek a second token (needed to disambiguate labeled
// statements from expression statements, and get/set accessors from
// ordinary `get`/`set` keys in object literals) without the lexer itself supporting unbounded lookahead.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token
	havePeek bool

	source, file string
	errs []*errors.EngineError

	// hoist accumulates the var names and function declarations seen
	// while parsing the current function/program body, reset by
	// parseFunctionBody/Parse on entry and read back on exit.
	hoist *hoistScope

	// labels is the set of statement labels currently in scope, used to
	// validate labeled break/continue targets. A continue naming a label
	// is only valid once that label's own statement is known to be an
	// iteration statement (ed.3 §12.7); since the label is recorded
	// before its body is parsed, each continue's position is queued on
	// labelInfo.continueUses and checked retroactively once the body is
	// known, in parseLabeledStmt.
	labels map[string]*labelInfo

	loopDepth, switchDepth int
	inFunction             bool

	// noIn suppresses treating `in` as a binary operator while parsing a
	// for-statement's init clause (ed.3 §12.6.4); parenthesized
	// sub-expressions reset it since the restriction does not nest.
	noIn bool

	// lastVarDecl is a one-shot handoff from
	// parseVarDeclNoSemiSingleForIn to parseFor for the three-clause
	// for-with-var-init case.
	lastVarDecl *ast.VarDecl
}

type hoistScope struct {
	varNames  map[string]bool
	order     []string
	funcDecls []*ast.FunctionDecl
}

func newHoistScope() *hoistScope {
	return &hoistScope{varNames: make(map[string]bool)}
}

func (h *hoistScope) addVar(name string) {
	if !h.varNames[name] {
		h.varNames[name] = true
		h.order = append(h.order, name)
	}
}

// labelInfo tracks one in-scope statement label while its body is being
// parsed: continueUses accumulates the position of every `continue
// label;` seen before the label's statement type is known.
type labelInfo struct {
	continueUses []token.Position
}

// New creates a Parser reading from src, attributed to file in error
// messages (file may be empty for an anonymous eval/string source).
func New(src, file string) *Parser {
	p := &Parser{
		lex:    lexer.NewFromString(src, file),
		source: src,
		file:   file,
		labels: make(map[string]*labelInfo),
		hoist:  newHoistScope(),
	}
	p.advance()
	return p
}

// Errors returns every syntax error accumulated during the parse; a
// non-empty result means the returned Program, if any, should not be
// compiled.
func (p *Parser) Errors() []*errors.EngineError { return p.errs }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, errors.Syntax(pos, fmt.Sprintf(format, args...), p.source, p.file))
}

// advance consumes the current token and reads the next one, honoring a
// pending single-token pushback from peekToken.
func (p *Parser) advance() {
	if p.havePeek {
		p.cur = p.peek
		p.havePeek = false
		return
	}
	p.cur = p.lex.Next()
}

// peekToken returns the token after cur without consuming cur.
func (p *Parser) peekToken() token.Token {
	if !p.havePeek {
		p.peek = p.lex.Next()
		p.havePeek = true
	}
	return p.peek
}

// reLexRegexp re-lexes the current token as a regular expression literal
// when cur is SLASH or SLASHEQ in a position where a regex is the only
// grammatically valid interpretation (ed.3's lexical grammar is
// context-sensitive at exactly this one point).
func (p *Parser) reLexRegexp() {
	if p.havePeek {
		// A regex re-lex can only be requested for the current token, and
		// peeking never happens before a primary expression position, so
		// this should not occur; guard defensively rather than silently
		// losing the peeked token.
		p.errorf(p.cur.Pos, "internal error: cannot re-lex with pending lookahead")
		return
	}
	p.cur = p.lex.NextRegexp()
}

func (p *Parser) expect(k token.Kind) token.Token {
	t := p.cur
	if t.Kind != k {
		p.errorf(t.Pos, "expected %s, got %s", k, t.Kind)
	} else {
		p.advance()
	}
	return t
}

// atSemicolon reports whether the current position accepts automatic
// semicolon insertion: an explicit ';', a '}', a line terminator before
// the current token, or end of input (ed.3 §7.9.1 rules 1-2).
func (p *Parser) atSemicolon() bool {
	return p.cur.Kind == token.SEMI ||
		p.cur.Kind == token.RBRACE ||
		p.cur.Kind == token.EOF ||
		p.cur.PrecededByLineTerminator
}

// consumeSemicolon implements ASI at a statement boundary: consumes an
// explicit ';' if present, otherwise inserts one silently if atSemicolon
// allows it, otherwise reports a syntax error.
func (p *Parser) consumeSemicolon() {
	if p.cur.Kind == token.SEMI {
		p.advance()
		return
	}
	if p.cur.Kind == token.RBRACE || p.cur.Kind == token.EOF || p.cur.PrecededByLineTerminator {
		return
	}
	p.errorf(p.cur.Pos, "expected ';', got %s", p.cur.Kind)
}

// Parse parses a complete program (the top level of a script or an eval
// string).
func Parse(src, file string) (*ast.Program, []*errors.EngineError) {
	p := New(src, file)
	prog := p.parseProgram()
	return prog, p.errs
}

func (p *Parser) parseProgram() *ast.Program {
	pos := p.cur.Pos
	h := newHoistScope()
	p.hoist = h

	var body []ast.Stmt
	for p.cur.Kind != token.EOF {
		body = append(body, p.parseStmt())
	}

	return ast.NewProgram(pos, body, h.order, h.funcDecls)
}
