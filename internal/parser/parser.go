// Package parser implements a recursive-descent parser for the zylang
// source subset, producing the AST shape defined in package ast.
package parser

import (
	"fmt"
	"os"
	"strconv"

	"github.com/zylang-project/zylang/internal/ast"
	"github.com/zylang-project/zylang/internal/errors"
	"github.com/zylang-project/zylang/internal/lexer"
	"github.com/zylang-project/zylang/internal/token"
)

// ParsedModule is the parser's output record: the root AST node plus the
// original source text and path, so later stages can render diagnostics
// with source context.
type ParsedModule struct {
	Program  *ast.Program
	Source   string
	Filename string
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l        *lexer.Lexer
	source   string
	filename string

	cur  token.Token
	peek token.Token

	errs []*errors.CompilerError
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer, source, filename string) *Parser {
	p := &Parser{l: l, source: source, filename: filename}
	p.next()
	p.next()
	return p
}

// Errors returns every parse error accumulated while parsing.
func (p *Parser) Errors() []*errors.CompilerError { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, errors.New(errors.KindParse, pos, fmt.Sprintf(format, args...), p.source, p.filename))
}

func (p *Parser) expect(tt token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errorf(p.cur.Pos, "expected %s, got %s (%q)", tt, p.cur.Type, p.cur.Literal)
	}
	p.next()
	return tok
}

// skipNewlines consumes zero or more blank NEWLINE tokens, which separate
// logical lines at module or block level.
func (p *Parser) skipNewlines() {
	for p.cur.Type == token.NEWLINE {
		p.next()
	}
}

// ParseProgram parses the whole token stream into a Program. Parse errors
// are accumulated in p.Errors() rather than aborting immediately, so a
// caller can report every problem found in one pass.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for p.cur.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipNewlines()
	}
	return prog
}

// parseStatement dispatches on the current token to one of the accepted
// top-level/block statement kinds. An unrecognized statement-starting
// token is a ParseError naming the construct. "for" is not a keyword, so a
// `for` header is read as a run of expression statements up to its ':',
// and that ':' is rejected here — this is how spec.md's "for" boundary
// scenario (§8.1) fails to parse.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.DEF:
		return p.parseFunctionDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT:
		if p.peek.Type == token.ASSIGN {
			return p.parseAssign()
		}
		return p.parseExpressionStatement()
	case token.INT, token.STRING, token.LPAREN:
		return p.parseExpressionStatement()
	default:
		p.errorf(p.cur.Pos, "unsupported construct: unexpected token %q", p.cur.Literal)
		p.next()
		return nil
	}
}

func (p *Parser) parseBlock() []ast.Statement {
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	var stmts []ast.Statement
	p.skipNewlines()
	for p.cur.Type != token.DEDENT && p.cur.Type != token.EOF {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	p.expect(token.DEDENT)
	return stmts
}

func (p *Parser) parseFunctionDef() ast.Statement {
	tok := p.cur
	p.next() // 'def'
	name := p.expect(token.IDENT).Literal

	p.expect(token.LPAREN)
	var params []ast.Param
	for p.cur.Type != token.RPAREN {
		paramName := p.expect(token.IDENT)
		param := ast.Param{Name: &ast.Identifier{Token: paramName, Value: paramName.Literal}}
		if p.cur.Type == token.COLON {
			p.next()
			param.Annotation = p.parseTypeAnnotation()
		}
		params = append(params, param)
		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RPAREN)

	var ret *ast.TypeAnnotation
	if p.cur.Type == token.ARROW {
		p.next()
		ret = p.parseTypeAnnotation()
	}

	body := p.parseBlock()
	return &ast.FunctionDef{Token: tok, Name: name, Params: params, ReturnType: ret, Body: body}
}

func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	tok := p.expect(token.IDENT)
	return &ast.TypeAnnotation{Name: tok.Literal}
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	p.next() // 'if'
	test := p.parseExpression()
	body := p.parseBlock()

	stmt := &ast.If{Token: tok, Test: test, Body: body}

	switch p.cur.Type {
	case token.ELSE:
		p.next()
		stmt.ElseBody = p.parseBlock()
	case token.ELIF:
		// elif desugars into a nested If inside an else-body, per SPEC_FULL
		// §4.1 — it is not a new AST kind.
		nested := p.parseIf()
		stmt.ElseBody = []ast.Statement{nested}
	}

	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	p.next() // 'while'
	test := p.parseExpression()
	body := p.parseBlock()
	return &ast.While{Token: tok, Test: test, Body: body}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	p.next() // 'return'
	if p.cur.Type == token.NEWLINE || p.cur.Type == token.DEDENT || p.cur.Type == token.EOF {
		return &ast.Return{Token: tok}
	}
	val := p.parseExpression()
	return &ast.Return{Token: tok, Value: val}
}

func (p *Parser) parseAssign() ast.Statement {
	nameTok := p.cur
	target := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}
	p.next()
	eqTok := p.expect(token.ASSIGN)
	val := p.parseExpression()
	return &ast.Assign{Token: eqTok, Target: target, Value: val}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// Expression grammar, tightest first: primary < term < arith < compare.
// There is no operator-precedence table beyond this because spec §3's
// expression vocabulary is exactly: Name, Constant, BinOp, Compare, Call.

func (p *Parser) parseExpression() ast.Expression {
	return p.parseComparison()
}

var compareOps = map[token.Type]ast.CompareOpKind{
	token.LT:    ast.Lt,
	token.LTE:   ast.LtE,
	token.GT:    ast.Gt,
	token.GTE:   ast.GtE,
	token.EQ:    ast.Eq,
	token.NOTEQ: ast.NotEq,
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAddSub()
	if op, ok := compareOps[p.cur.Type]; ok {
		tok := p.cur
		p.next()
		right := p.parseAddSub()
		// Chained comparisons collapse to the first pair per spec §3: any
		// further operator/comparator pairs are parsed and discarded, so
		// only the first operator kind and first right comparator remain.
		for _, more := compareOps[p.cur.Type]; more; _, more = compareOps[p.cur.Type] {
			p.next()
			p.parseAddSub()
		}
		return &ast.CompareExpr{Token: tok, Left: left, Op: op, Comparator: right}
	}
	return left
}

func (p *Parser) parseAddSub() ast.Expression {
	left := p.parseMulDiv()
	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		tok := p.cur
		op := ast.Add
		if tok.Type == token.MINUS {
			op = ast.Sub
		}
		p.next()
		right := p.parseMulDiv()
		left = &ast.BinaryExpr{Token: tok, Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expression {
	left := p.parsePrimary()
	for p.cur.Type == token.STAR || p.cur.Type == token.SLASH || p.cur.Type == token.PERCENT {
		tok := p.cur
		var op ast.BinOpKind
		switch tok.Type {
		case token.STAR:
			op = ast.Mult
		case token.SLASH:
			op = ast.Div
		case token.PERCENT:
			op = ast.Mod
		}
		p.next()
		right := p.parsePrimary()
		left = &ast.BinaryExpr{Token: tok, Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case token.IDENT:
		tok := p.cur
		p.next()
		var expr ast.Expression = &ast.Identifier{Token: tok, Value: tok.Literal}
		for p.cur.Type == token.LPAREN {
			expr = p.parseCall(expr)
		}
		return expr
	case token.INT:
		tok := p.cur
		p.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
		}
		return &ast.IntegerLiteral{Token: tok, Value: v}
	case token.STRING:
		tok := p.cur
		p.next()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.LPAREN:
		p.next()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	default:
		p.errorf(p.cur.Pos, "unsupported construct: unexpected token %q in expression", p.cur.Literal)
		tok := p.cur
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.expect(token.LPAREN)
	var args []ast.Expression
	for p.cur.Type != token.RPAREN {
		args = append(args, p.parseExpression())
		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Token: tok, Callee: callee, Args: args}
}

// ParseFile reads path, lexes and parses it, and returns a ParsedModule.
// On any parse error it returns the first accumulated error; all errors
// are available afterward via the returned Parser's state if the caller
// needs them (the CLI prints every one before exiting).
func ParseFile(path string) (*ParsedModule, *Parser, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.IOFailure(err)
	}
	source := string(content)

	l := lexer.New(source)
	p := New(l, source, path)
	prog := p.ParseProgram()

	for _, lexErr := range l.Errors() {
		p.errorf(lexErr.Pos, "%s", lexErr.Message)
	}

	if len(p.Errors()) > 0 {
		return nil, p, p.Errors()[0]
	}

	return &ParsedModule{Program: prog, Source: source, Filename: path}, p, nil
}
