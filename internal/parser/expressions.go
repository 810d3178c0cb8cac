package parser

import (
	"strconv"

	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/token"
)

// parseExpr parses a full Expression, including the comma operator.
func (p *Parser) parseExpr() ast.Expr {
	pos := p.cur.Pos
	first := p.parseAssignExpr()
	if p.cur.Kind != token.COMMA {
		return first
	}
	return p.parseSequenceFrom(pos, first)
}

func (p *Parser) parseSequenceFrom(pos token.Position, first ast.Expr) ast.Expr {
	exprs := []ast.Expr{first}
	for p.cur.Kind == token.COMMA {
		p.advance()
		exprs = append(exprs, p.parseAssignExpr())
	}
	return &ast.SequenceExpr{ExprNode: ast.AtExpr(pos), Exprs: exprs}
}

// parseExprNoIn parses an Expression in a context where the `in` operator
// must not be consumed as a binary operator (a for-statement's init
// clause, ed.3 §12.6.4), restoring the parser's noIn flag on return.
func (p *Parser) parseExprNoIn() ast.Expr {
	save := p.noIn
	p.noIn = true
	x := p.parseExpr()
	p.noIn = save
	return x
}

func (p *Parser) parseAssignExprNoIn() ast.Expr {
	save := p.noIn
	p.noIn = true
	x := p.parseAssignExpr()
	p.noIn = save
	return x
}

var assignOps = map[token.Kind]string{
	token.ASSIGN: "=", token.PLUSEQ: "+=", token.MINUSEQ: "-=", token.STAREQ: "*=",
	token.PERCENTEQ: "%=", token.LSHIFTEQ: "<<=", token.RSHIFTEQ: ">>=",
	token.URSHIFTEQ: ">>>=", token.ANDEQ: "&=", token.OREQ: "|=", token.XOREQ: "^=",
	token.SLASHEQ: "/=",
}

func (p *Parser) parseAssignExpr() ast.Expr {
	pos := p.cur.Pos
	left := p.parseConditionalExpr()
	if op, ok := assignOps[p.cur.Kind]; ok {
		p.advance()
		right := p.parseAssignExpr()
		return &ast.AssignExpr{ExprNode: ast.AtExpr(pos), Op: op, Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseConditionalExpr() ast.Expr {
	pos := p.cur.Pos
	cond := p.parseBinaryExpr(1)
	if p.cur.Kind != token.QUESTION {
		return cond
	}
	p.advance()
	then := p.parseAssignExpr()
	p.expect(token.COLON)
	els := p.parseAssignExpr()
	return &ast.ConditionalExpr{ExprNode: ast.AtExpr(pos), Cond: cond, Then: then, Else: els}
}

type binOp struct {
	text string
	prec int
}

var binOps = map[token.Kind]binOp{
	token.LOGOR:      {"||", 1},
	token.LOGAND:     {"&&", 2},
	token.OR:         {"|", 3},
	token.XOR:        {"^", 4},
	token.AND:        {"&", 5},
	token.EQ:         {"==", 6},
	token.NE:         {"!=", 6},
	token.SEQ:        {"===", 6},
	token.SNE:        {"!==", 6},
	token.LT:         {"<", 7},
	token.GT:         {">", 7},
	token.LE:         {"<=", 7},
	token.GE:         {">=", 7},
	token.INSTANCEOF: {"instanceof", 7},
	token.IN:         {"in", 7},
	token.LSHIFT:     {"<<", 8},
	token.RSHIFT:     {">>", 8},
	token.URSHIFT:    {">>>", 8},
	token.PLUS:       {"+", 9},
	token.MINUS:      {"-", 9},
	token.STAR:       {"*", 10},
	token.SLASH:      {"/", 10},
	token.PERCENT:    {"%", 10},
}

// parseBinaryExpr implements operator-precedence climbing for all binary
// and logical operators (ed.3 §11.5-11.11). When p.noIn is set, `in` is
// not treated as an operator at all, letting a for-statement's init
// clause end cleanly at the keyword.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	pos := p.cur.Pos
	left := p.parseUnaryExpr()
	for {
		if p.cur.Kind == token.IN && p.noIn {
			return left
		}
		info, ok := binOps[p.cur.Kind]
		if !ok || info.prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinaryExpr(info.prec + 1)
		if info.text == "&&" || info.text == "||" {
			left = &ast.LogicalExpr{ExprNode: ast.AtExpr(pos), Op: info.text, X: left, Y: right}
		} else {
			left = &ast.BinaryExpr{ExprNode: ast.AtExpr(pos), Op: info.text, X: left, Y: right}
		}
	}
}

var unaryOps = map[token.Kind]string{
	token.DELETE: "delete", token.VOID: "void", token.TYPEOF: "typeof",
	token.PLUS: "+", token.MINUS: "-", token.TILDE: "~", token.NOT: "!",
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	pos := p.cur.Pos
	if op, ok := unaryOps[p.cur.Kind]; ok {
		p.advance()
		x := p.parseUnaryExpr()
		return &ast.UnaryExpr{ExprNode: ast.AtExpr(pos), Op: op, X: x}
	}
	if p.cur.Kind == token.PLUSPLUS || p.cur.Kind == token.MINUSMINUS {
		op := "++"
		if p.cur.Kind == token.MINUSMINUS {
			op = "--"
		}
		p.advance()
		x := p.parseUnaryExpr()
		return &ast.UpdateExpr{ExprNode: ast.AtExpr(pos), Op: op, Prefix: true, X: x}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	pos := p.cur.Pos
	x := p.parseLeftHandSideExpr()
	// ed.3 §7.9.1 restricted production: no line terminator before a
	// postfix ++/--.
	if (p.cur.Kind == token.PLUSPLUS || p.cur.Kind == token.MINUSMINUS) && !p.cur.PrecededByLineTerminator {
		op := "++"
		if p.cur.Kind == token.MINUSMINUS {
			op = "--"
		}
		p.advance()
		return &ast.UpdateExpr{ExprNode: ast.AtExpr(pos), Op: op, Prefix: false, X: x}
	}
	return x
}

func (p *Parser) parseLeftHandSideExpr() ast.Expr {
	var x ast.Expr
	if p.cur.Kind == token.NEW {
		x = p.parseNewExpr()
	} else {
		x = p.parsePrimaryExpr()
	}
	return p.parseCallOrMemberTail(x, true)
}

func (p *Parser) parseNewExpr() ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume 'new'
	var callee ast.Expr
	if p.cur.Kind == token.NEW {
		callee = p.parseNewExpr()
	} else {
		callee = p.parsePrimaryExpr()
	}
	callee = p.parseCallOrMemberTail(callee, false)
	var args []ast.Expr
	if p.cur.Kind == token.LPAREN {
		args = p.parseArgs()
	}
	return &ast.NewExpr{ExprNode: ast.AtExpr(pos), Callee: callee, Args: args}
}

// parseCallOrMemberTail consumes `.name`, `[expr]`, and — when allowCall
// is set — `(args)` suffixes in source order, letting
// `new Foo().bar()[0]` chain naturally. allowCall is false while
// resolving a `new` expression's callee, so the constructor's own
// argument list is left for parseNewExpr to consume instead.
func (p *Parser) parseCallOrMemberTail(x ast.Expr, allowCall bool) ast.Expr {
	for {
		pos := p.cur.Pos
		switch p.cur.Kind {
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT).Literal
			x = &ast.MemberExpr{ExprNode: ast.AtExpr(pos), Object: x, Name: name}
		case token.LBRACKET:
			p.advance()
			prop := p.parseExpr()
			p.expect(token.RBRACKET)
			x = &ast.MemberExpr{ExprNode: ast.AtExpr(pos), Object: x, Property: prop, Computed: true}
		case token.LPAREN:
			if !allowCall {
				return x
			}
			args := p.parseArgs()
			x = &ast.CallExpr{ExprNode: ast.AtExpr(pos), Callee: x, Args: args}
		default:
			return x
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.cur.Kind != token.RPAREN {
		args = append(args, p.parseAssignExpr())
		if p.cur.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.THIS:
		p.advance()
		return &ast.ThisExpr{ExprNode: ast.AtExpr(pos)}
	case token.IDENT:
		name := p.cur.Literal
		p.advance()
		return &ast.Ident{ExprNode: ast.AtExpr(pos), Name: name}
	case token.NULL:
		p.advance()
		return &ast.NullLit{ExprNode: ast.AtExpr(pos)}
	case token.TRUE, token.FALSE:
		v := p.cur.Kind == token.TRUE
		p.advance()
		return &ast.BoolLit{ExprNode: ast.AtExpr(pos), Value: v}
	case token.NUMBER:
		lit := p.cur.Literal
		p.advance()
		return &ast.NumberLit{ExprNode: ast.AtExpr(pos), Value: parseNumberLiteral(lit)}
	case token.STRING:
		lit := p.cur.Literal
		p.advance()
		return &ast.StringLit{ExprNode: ast.AtExpr(pos), Value: lit}
	case token.SLASH, token.SLASHEQ:
		p.reLexRegexp()
		lit := p.cur.Literal
		p.advance()
		pattern, flags := splitRegexLiteral(lit)
		return &ast.RegexpLit{ExprNode: ast.AtExpr(pos), Pattern: pattern, Flags: flags}
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.FUNCTION:
		return p.parseFunctionExpr()
	case token.LPAREN:
		p.advance()
		save := p.noIn
		p.noIn = false
		x := p.parseExpr()
		p.noIn = save
		p.expect(token.RPAREN)
		return x
	default:
		p.errorf(pos, "unexpected token %s in expression", p.cur.Kind)
		p.advance()
		return &ast.NullLit{ExprNode: ast.AtExpr(pos)}
	}
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	pos := p.cur.Pos
	p.advance() // [
	var elems []ast.Expr
	for p.cur.Kind != token.RBRACKET {
		if p.cur.Kind == token.COMMA {
			elems = append(elems, nil) // elision
			p.advance()
			continue
		}
		elems = append(elems, p.parseAssignExpr())
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{ExprNode: ast.AtExpr(pos), Elements: elems}
}

func (p *Parser) parseObjectLit() *ast.ObjectLit {
	pos := p.cur.Pos
	p.advance() // {
	var props []ast.ObjectProp
	for p.cur.Kind != token.RBRACE {
		props = append(props, p.parsePropertyAssignment())
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return &ast.ObjectLit{ExprNode: ast.AtExpr(pos), Props: props}
}

// parsePropertyAssignment handles `name: value`, `get name() {...}`, and
// `set name(v) {...}` (ed.3 §11.1.5, with the getter/setter extension
// most ed.3 implementations shipped ahead of standardization).
func (p *Parser) parsePropertyAssignment() ast.ObjectProp {
	if p.cur.Kind == token.IDENT && (p.cur.Literal == "get" || p.cur.Literal == "set") {
		kind := p.cur.Literal
		if p.peekToken().Kind == token.IDENT || p.peekToken().Kind == token.STRING {
			p.advance() // get/set
			key := p.parsePropertyKey()
			params, body := p.parseFunctionRest()
			fn := &ast.FunctionExpr{Params: params, Body: body}
			propKind := ast.PropGetter
			if kind == "set" {
				propKind = ast.PropSetter
			}
			return ast.ObjectProp{Key: key, Value: fn, Kind: propKind}
		}
	}
	key := p.parsePropertyKey()
	p.expect(token.COLON)
	value := p.parseAssignExpr()
	return ast.ObjectProp{Key: key, Value: value, Kind: ast.PropInit}
}

func (p *Parser) parsePropertyKey() string {
	switch p.cur.Kind {
	case token.IDENT:
		k := p.cur.Literal
		p.advance()
		return k
	case token.STRING:
		k := p.cur.Literal
		p.advance()
		return k
	case token.NUMBER:
		k := p.cur.Literal
		p.advance()
		return k
	default:
		// Reserved words are valid property names in ed.3 §11.1.5.
		k := p.cur.Kind.String()
		p.advance()
		return k
	}
}

func (p *Parser) parseFunctionExpr() *ast.FunctionExpr {
	pos := p.cur.Pos
	p.advance() // function
	name := ""
	if p.cur.Kind == token.IDENT {
		name = p.cur.Literal
		p.advance()
	}
	params, body := p.parseFunctionRest()
	return &ast.FunctionExpr{ExprNode: ast.AtExpr(pos), Name: name, Params: params, Body: body}
}

func parseNumberLiteral(lit string) float64 {
	if len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		n, err := strconv.ParseUint(lit[2:], 16, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0
	}
	return n
}

// splitRegexLiteral splits a lexed `/pattern/flags` literal into its two
// parts; the lexer guarantees the closing slash is present.
func splitRegexLiteral(lit string) (pattern, flags string) {
	if len(lit) < 2 || lit[0] != '/' {
		return lit, ""
	}
	end := len(lit) - 1
	for end > 0 && lit[end] != '/' {
		end--
	}
	return lit[1:end], lit[end+1:]
}
