package parser

import (
	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR:
		return p.parseVarStmt()
	case token.SEMI:
		pos := p.cur.Pos
		p.advance()
		return &ast.EmptyStmt{StmtNode: ast.AtStmt(pos)}
	case token.IF:
		return p.parseIf()
	case token.DO:
		return p.parseDoWhile()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.CONTINUE:
		return p.parseContinue()
	case token.BREAK:
		return p.parseBreak()
	case token.RETURN:
		return p.parseReturn()
	case token.WITH:
		return p.parseWith()
	case token.SWITCH:
		return p.parseSwitch()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.DEBUGGER:
		pos := p.cur.Pos
		p.advance()
		p.consumeSemicolon()
		return &ast.DebuggerStmt{StmtNode: ast.AtStmt(pos)}
	case token.IDENT:
		if p.peekToken().Kind == token.COLON {
			return p.parseLabeledStmt()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	var body []ast.Stmt
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		body = append(body, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return &ast.BlockStmt{StmtNode: ast.AtStmt(pos), Body: body}
}

func (p *Parser) parseVarStmt() *ast.VarDecl {
	pos := p.cur.Pos
	decl := p.parseVarDeclNoSemi(pos)
	p.consumeSemicolon()
	return decl
}

// parseVarDeclNoSemi parses `var a = 1, b` without consuming the trailing
// semicolon, so for-statement init clauses can share this logic.
func (p *Parser) parseVarDeclNoSemi(pos token.Position) *ast.VarDecl {
	p.expect(token.VAR)
	var decls []ast.VarBinding
	for {
		nameTok := p.expect(token.IDENT)
		name := nameTok.Literal
		p.hoist.addVar(name)
		binding := ast.VarBinding{Name: ast.Ident{ExprNode: ast.AtExpr(nameTok.Pos), Name: name}}
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			binding.Init = p.parseAssignExpr()
		}
		decls = append(decls, binding)
		if p.cur.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	return &ast.VarDecl{StmtNode: ast.AtStmt(pos), Decls: decls}
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	pos := p.cur.Pos
	x := p.parseExpr()
	p.consumeSemicolon()
	return &ast.ExprStmt{StmtNode: ast.AtStmt(pos), X: x}
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseStmt()
	var els ast.Stmt
	if p.cur.Kind == token.ELSE {
		p.advance()
		els = p.parseStmt()
	}
	return &ast.IfStmt{StmtNode: ast.AtStmt(pos), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseDoWhile() *ast.DoWhileStmt {
	pos := p.cur.Pos
	p.advance()
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	// a do-while's trailing semicolon is subject to ASI like any other,
	// but ed.3 explicitly permits omitting it even without a following
	// line terminator (§7.9.1's third special case); consumeSemicolon's
	// generic behavior already accepts a following '}' or EOF, and an
	// explicit ';' is the overwhelmingly common case in practice.
	if p.cur.Kind == token.SEMI {
		p.advance()
	}
	return &ast.DoWhileStmt{StmtNode: ast.AtStmt(pos), Body: body, Cond: cond}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return &ast.WhileStmt{StmtNode: ast.AtStmt(pos), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)

	// `for (var x in obj)` and `for (x in obj)` both require lookahead
	// past the first expression/declaration to see whether `in` follows.
	if p.cur.Kind == token.VAR {
		declPos := p.cur.Pos
		decl := p.parseVarDeclNoSemiSingleForIn(declPos)
		if decl != nil {
			return p.finishForIn(pos, decl.Decls[0].Name.Name, nil)
		}
		return p.finishFor(pos, p.lastVarDecl)
	}

	if p.cur.Kind == token.SEMI {
		return p.finishFor(pos, nil)
	}

	x := p.parseExprNoIn()
	if p.cur.Kind == token.IN {
		return p.finishForIn(pos, "", x)
	}
	// finish parsing as a full expression if a comma sequence follows
	if p.cur.Kind == token.COMMA {
		x = p.parseSequenceFrom(pos, x)
	}
	init := &ast.ExprStmt{StmtNode: ast.AtStmt(pos), X: x}
	return p.finishForWithExprInit(pos, init)
}

func (p *Parser) finishForWithExprInit(pos token.Position, init *ast.ExprStmt) *ast.ForStmt {
	p.expect(token.SEMI)
	var cond, post ast.Expr
	if p.cur.Kind != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)
	if p.cur.Kind != token.RPAREN {
		post = p.parseExpr()
	}
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return &ast.ForStmt{StmtNode: ast.AtStmt(pos), Init: init.X, Cond: cond, Post: post, Body: body}
}

func (p *Parser) finishFor(pos token.Position, initDecl *ast.VarDecl) *ast.ForStmt {
	p.expect(token.SEMI)
	var cond, post ast.Expr
	if p.cur.Kind != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)
	if p.cur.Kind != token.RPAREN {
		post = p.parseExpr()
	}
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return &ast.ForStmt{StmtNode: ast.AtStmt(pos), InitDecl: initDecl, Cond: cond, Post: post, Body: body}
}

func (p *Parser) finishForIn(pos token.Position, declName string, target ast.Expr) *ast.ForInStmt {
	p.expect(token.IN)
	obj := p.parseExpr()
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return &ast.ForInStmt{StmtNode: ast.AtStmt(pos), DeclName: declName, Target: target, Object: obj, Body: body}
}

// parseVarDeclNoSemiSingleForIn parses the var-declaration init clause of
// a for-statement, which may be either a full comma-separated var
// declaration (`for (var a=1,b=2; ...)`) or the single-binding form that
// for-in restricts itself to (`for (var x in obj)`); it returns nil, with
// p.lastVarDecl holding the full parse, when `in` does not follow the
// first binding.
func (p *Parser) parseVarDeclNoSemiSingleForIn(pos token.Position) *ast.VarDecl {
	p.expect(token.VAR)
	nameTok := p.expect(token.IDENT)
	name := nameTok.Literal
	p.hoist.addVar(name)
	binding := ast.VarBinding{Name: ast.Ident{ExprNode: ast.AtExpr(nameTok.Pos), Name: name}}
	if p.cur.Kind == token.ASSIGN {
		p.advance()
		binding.Init = p.parseAssignExprNoIn()
	}
	if p.cur.Kind == token.IN {
		decl := &ast.VarDecl{StmtNode: ast.AtStmt(pos), Decls: []ast.VarBinding{binding}}
		return decl
	}
	decls := []ast.VarBinding{binding}
	for p.cur.Kind == token.COMMA {
		p.advance()
		nameTok := p.expect(token.IDENT)
		name := nameTok.Literal
		p.hoist.addVar(name)
		b := ast.VarBinding{Name: ast.Ident{ExprNode: ast.AtExpr(nameTok.Pos), Name: name}}
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			b.Init = p.parseAssignExpr()
		}
		decls = append(decls, b)
	}
	p.lastVarDecl = &ast.VarDecl{StmtNode: ast.AtStmt(pos), Decls: decls}
	return nil
}

func (p *Parser) parseContinue() *ast.ContinueStmt {
	pos := p.cur.Pos
	p.advance()
	label := ""
	if p.cur.Kind == token.IDENT && !p.cur.PrecededByLineTerminator {
		label = p.cur.Literal
		p.advance()
	}
	if label == "" && p.loopDepth == 0 {
		p.errorf(pos, "continue statement not within a loop")
	}
	if label != "" {
		if info, ok := p.labels[label]; ok {
			info.continueUses = append(info.continueUses, pos)
		} else {
			p.errorf(pos, "undefined label %q", label)
		}
	}
	p.consumeSemicolon()
	return &ast.ContinueStmt{StmtNode: ast.AtStmt(pos), Label: label}
}

func (p *Parser) parseBreak() *ast.BreakStmt {
	pos := p.cur.Pos
	p.advance()
	label := ""
	if p.cur.Kind == token.IDENT && !p.cur.PrecededByLineTerminator {
		label = p.cur.Literal
		p.advance()
	}
	if label == "" && p.loopDepth == 0 && p.switchDepth == 0 {
		p.errorf(pos, "break statement not within a loop or switch")
	}
	if label != "" {
		if _, ok := p.labels[label]; !ok {
			p.errorf(pos, "undefined label %q", label)
		}
	}
	p.consumeSemicolon()
	return &ast.BreakStmt{StmtNode: ast.AtStmt(pos), Label: label}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	pos := p.cur.Pos
	p.advance()
	if !p.inFunction {
		p.errorf(pos, "return statement outside of a function")
	}
	var x ast.Expr
	if !p.atSemicolon() {
		x = p.parseExpr()
	}
	p.consumeSemicolon()
	return &ast.ReturnStmt{StmtNode: ast.AtStmt(pos), X: x}
}

func (p *Parser) parseWith() *ast.WithStmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	obj := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.WithStmt{StmtNode: ast.AtStmt(pos), Object: obj, Body: body}
}

func (p *Parser) parseLabeledStmt() *ast.LabeledStmt {
	pos := p.cur.Pos
	label := p.cur.Literal
	p.advance() // IDENT
	p.advance() // COLON
	if _, exists := p.labels[label]; exists {
		p.errorf(pos, "label %q already declared", label)
	}
	info := &labelInfo{}
	p.labels[label] = info
	body := p.parseStmt()
	delete(p.labels, label)

	if !isIterationStmt(body) {
		for _, usePos := range info.continueUses {
			p.errorf(usePos, "continue label %q does not label an iteration statement", label)
		}
	}
	return &ast.LabeledStmt{StmtNode: ast.AtStmt(pos), Label: label, Body: body}
}

// isIterationStmt reports whether s is (possibly through a chain of
// further labels, as in `a: b: while (...)`) an iteration statement —
// the only kind of statement `continue label;` may legally target.
func isIterationStmt(s ast.Stmt) bool {
	switch b := s.(type) {
	case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForInStmt:
		return true
	case *ast.LabeledStmt:
		return isIterationStmt(b.Body)
	default:
		return false
	}
}

func (p *Parser) parseSwitch() *ast.SwitchStmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	tag := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	p.switchDepth++
	var cases []ast.SwitchCase
	sawDefault := false
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		var c ast.SwitchCase
		if p.cur.Kind == token.CASE {
			p.advance()
			c.Test = p.parseExpr()
		} else if p.cur.Kind == token.DEFAULT {
			if sawDefault {
				p.errorf(p.cur.Pos, "a switch statement may have at most one default clause")
			}
			sawDefault = true
			p.advance()
		} else {
			p.errorf(p.cur.Pos, "expected case or default, got %s", p.cur.Kind)
			break
		}
		p.expect(token.COLON)
		for p.cur.Kind != token.CASE && p.cur.Kind != token.DEFAULT && p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
			c.Body = append(c.Body, p.parseStmt())
		}
		cases = append(cases, c)
	}
	p.switchDepth--
	p.expect(token.RBRACE)
	return &ast.SwitchStmt{StmtNode: ast.AtStmt(pos), Tag: tag, Cases: cases}
}

func (p *Parser) parseThrow() *ast.ThrowStmt {
	pos := p.cur.Pos
	p.advance()
	// ed.3 §12.13's restricted production: no line terminator between
	// `throw` and its expression.
	if p.cur.PrecededByLineTerminator {
		p.errorf(pos, "illegal newline after throw")
	}
	x := p.parseExpr()
	p.consumeSemicolon()
	return &ast.ThrowStmt{StmtNode: ast.AtStmt(pos), X: x}
}

func (p *Parser) parseTry() *ast.TryStmt {
	pos := p.cur.Pos
	p.advance()
	block := p.parseBlock()
	t := &ast.TryStmt{StmtNode: ast.AtStmt(pos), Block: block}
	if p.cur.Kind == token.CATCH {
		p.advance()
		p.expect(token.LPAREN)
		param := p.expect(token.IDENT).Literal
		p.expect(token.RPAREN)
		catchBlock := p.parseBlock()
		t.Catch = &ast.CatchClause{Param: param, Block: catchBlock}
	}
	if p.cur.Kind == token.FINALLY {
		p.advance()
		t.Finally = p.parseBlock()
	}
	if t.Catch == nil && t.Finally == nil {
		p.errorf(pos, "missing catch or finally after try")
	}
	return t
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	pos := p.cur.Pos
	p.advance()
	name := p.expect(token.IDENT).Literal
	params, body := p.parseFunctionRest()
	decl := &ast.FunctionDecl{StmtNode: ast.AtStmt(pos), Name: name, Params: params, Body: body}
	p.hoist.funcDecls = append(p.hoist.funcDecls, decl)
	return decl
}

// parseFunctionRest parses the parameter list and body shared by function
// declarations and function expressions, hoisting into a fresh scope.
func (p *Parser) parseFunctionRest() ([]string, *ast.FunctionBody) {
	p.expect(token.LPAREN)
	var params []string
	for p.cur.Kind != token.RPAREN {
		params = append(params, p.expect(token.IDENT).Literal)
		if p.cur.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	outerHoist, outerLoop, outerSwitch, outerFn, outerLabels := p.hoist, p.loopDepth, p.switchDepth, p.inFunction, p.labels
	p.hoist = newHoistScope()
	p.loopDepth, p.switchDepth, p.inFunction = 0, 0, true
	p.labels = make(map[string]*labelInfo)

	p.expect(token.LBRACE)
	var body []ast.Stmt
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		body = append(body, p.parseStmt())
	}
	p.expect(token.RBRACE)

	fb := &ast.FunctionBody{Body: body, VarNames: p.hoist.order, FuncDecls: p.hoist.funcDecls}
	p.hoist, p.loopDepth, p.switchDepth, p.inFunction, p.labels = outerHoist, outerLoop, outerSwitch, outerFn, outerLabels
	return params, fb
}
