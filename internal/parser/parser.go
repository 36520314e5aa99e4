// Package parser turns a token stream into the AST node shapes the
// evaluator walks. It supplies one concrete recursive-descent grammar
// for an indentation-structured, class-based scripting language, so
// the interpreter is runnable end to end.
package parser

import (
	"fmt"

	"mython/internal/ast"
	"mython/internal/token"
)

// ParseError reports a failure to match the grammar at a given line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parser consumes a finished token sequence (as produced by
// internal/lexer) and builds the AST the evaluator expects.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New returns a Parser positioned at the first token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse returns the top-level statement list, or a *ParseError.
func Parse(tokens []token.Token) (stmts []ast.Node, err error) {
	p := New(tokens)
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*ParseError); ok {
				err = perr
				return
			}
			panic(r)
		}
	}()
	return p.parseProgram(), nil
}

func (p *Parser) parseProgram() []ast.Node {
	var stmts []ast.Node
	for !p.check(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

// --- statements ---

func (p *Parser) parseStmt() ast.Node {
	switch p.current().Kind {
	case token.CLASS:
		return p.parseClassDef()
	case token.IF:
		return p.parseIf()
	case token.PRINT:
		s := p.parsePrint()
		p.expectNewline()
		return s
	case token.RETURN:
		s := p.parseReturn()
		p.expectNewline()
		return s
	default:
		s := p.parseSimpleStmt()
		p.expectNewline()
		return s
	}
}

func (p *Parser) parseBlock() []ast.Node {
	p.expectNewline()
	p.expect(token.INDENT, "expected an indented block")
	var stmts []ast.Node
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.DEDENT, "expected end of block")
	return stmts
}

func (p *Parser) parseClassDef() ast.Node {
	tok := p.advance() // 'class'
	name := p.expectIdent()

	var parent string
	if p.checkChar('(') {
		p.advance()
		parent = p.expectIdent()
		p.expectChar(')')
	}
	p.expectChar(':')

	methods := p.parseClassBody()
	return &ast.ClassDefinition{Tok: tok, Name: name, Methods: methods, Parent: parent}
}

func (p *Parser) parseClassBody() []*ast.Method {
	p.expectNewline()
	p.expect(token.INDENT, "expected an indented class body")
	var methods []*ast.Method
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		methods = append(methods, p.parseMethodDef())
	}
	p.expect(token.DEDENT, "expected end of class body")
	return methods
}

func (p *Parser) parseMethodDef() *ast.Method {
	p.expect(token.DEF, "expected a method definition")
	name := p.expectIdent()
	p.expectChar('(')
	var params []string
	for !p.checkChar(')') {
		if len(params) > 0 {
			p.expectChar(',')
		}
		params = append(params, p.expectIdent())
	}
	p.expectChar(')')
	p.expectChar(':')
	body := p.parseBlock()

	if len(params) > 0 && params[0] == "self" {
		params = params[1:]
	}
	return &ast.Method{Name: name, Params: params, Body: &ast.MethodBody{Body: body}}
}

func (p *Parser) parseIf() ast.Node {
	tok := p.advance() // 'if'
	cond := p.parseExpr()
	p.expectChar(':')
	thenStmts := p.parseBlock()

	var elseNode ast.Node
	if p.check(token.ELSE) {
		p.advance()
		p.expectChar(':')
		elseStmts := p.parseBlock()
		elseNode = &ast.Compound{Statements: elseStmts}
	}
	return &ast.IfElse{Tok: tok, Cond: cond, Then: &ast.Compound{Statements: thenStmts}, Else: elseNode}
}

func (p *Parser) parsePrint() ast.Node {
	tok := p.advance() // 'print'
	var args []ast.Node
	if !p.check(token.NEWLINE) {
		args = append(args, p.parseExpr())
		for p.checkChar(',') {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	return &ast.Print{Tok: tok, Args: args}
}

func (p *Parser) parseReturn() ast.Node {
	tok := p.advance() // 'return'
	expr := p.parseExpr()
	return &ast.Return{Tok: tok, Expr: expr}
}

func (p *Parser) parseSimpleStmt() ast.Node {
	if p.check(token.IDENT) {
		save := p.pos
		tok0 := p.advance()
		ids := []string{tok0.Str}
		for p.checkChar('.') {
			p.advance()
			ids = append(ids, p.expectIdent())
		}
		if p.checkChar('=') {
			p.advance()
			rhs := p.parseExpr()
			if len(ids) == 1 {
				return &ast.Assignment{Tok: tok0, Var: ids[0], Rhs: rhs}
			}
			object := &ast.VariableValue{Tok: ast.DottedTok{Tok: tok0}, Ids: ids[:len(ids)-1]}
			return &ast.FieldAssignment{Tok: tok0, Object: object, Field: ids[len(ids)-1], Rhs: rhs}
		}
		p.pos = save
	}
	return p.parseExpr()
}

// --- expressions, by ascending precedence ---

func (p *Parser) parseExpr() ast.Node {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Node {
	left := p.parseAnd()
	for p.check(token.OR) {
		tok := p.advance()
		right := p.parseAnd()
		left = &ast.Or{Tok: tok, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Node {
	left := p.parseNot()
	for p.check(token.AND) {
		tok := p.advance()
		right := p.parseNot()
		left = &ast.And{Tok: tok, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Node {
	if p.check(token.NOT) {
		tok := p.advance()
		return &ast.Not{Tok: tok, Expr: p.parseNot()}
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]ast.CmpOp{
	token.EQ:        ast.CmpEqual,
	token.NOTEQ:     ast.CmpNotEqual,
	token.LESSEQ:    ast.CmpLessOrEqual,
	token.GREATEREQ: ast.CmpGreaterOrEqual,
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseAdditive()
	if op, ok := comparisonOps[p.current().Kind]; ok {
		tok := p.advance()
		right := p.parseAdditive()
		return &ast.Comparison{Tok: tok, Op: op, Lhs: left, Rhs: right}
	}
	if p.checkChar('<') {
		tok := p.advance()
		right := p.parseAdditive()
		return &ast.Comparison{Tok: tok, Op: ast.CmpLess, Lhs: left, Rhs: right}
	}
	if p.checkChar('>') {
		tok := p.advance()
		right := p.parseAdditive()
		return &ast.Comparison{Tok: tok, Op: ast.CmpGreater, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseTerm()
	for p.checkChar('+') || p.checkChar('-') {
		tok := p.advance()
		op := ast.Add
		if tok.Char == '-' {
			op = ast.Sub
		}
		right := p.parseTerm()
		left = &ast.BinaryOp{Tok: tok, Op: op, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Node {
	left := p.parseUnary()
	for p.checkChar('*') || p.checkChar('/') {
		tok := p.advance()
		op := ast.Mult
		if tok.Char == '/' {
			op = ast.Div
		}
		right := p.parseUnary()
		left = &ast.BinaryOp{Tok: tok, Op: op, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Node {
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Node {
	tok := p.current()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return &ast.Literal{Tok: tok, Value: tok.Num}
	case token.STRING:
		p.advance()
		return &ast.Literal{Tok: tok, Value: tok.Str}
	case token.TRUE:
		p.advance()
		return &ast.Literal{Tok: tok, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.Literal{Tok: tok, Value: false}
	case token.NONE:
		p.advance()
		return &ast.NoneLiteral{Tok: tok}
	case token.IDENT:
		return p.parseIdentExpr()
	default:
		if tok.Kind == token.CHAR && tok.Char == '(' {
			p.advance()
			inner := p.parseExpr()
			p.expectChar(')')
			return inner
		}
		p.failf(tok.Line, "unexpected token %s", tok)
		return nil
	}
}

func (p *Parser) parseIdentExpr() ast.Node {
	tok := p.advance()
	name := tok.Str

	if name == "str" && p.checkChar('(') {
		p.advance()
		arg := p.parseExpr()
		p.expectChar(')')
		return &ast.Stringify{Tok: tok, Expr: arg}
	}

	ids := []string{name}
	for p.checkChar('.') {
		p.advance()
		ids = append(ids, p.expectIdent())
	}

	if p.checkChar('(') {
		p.advance()
		args := p.parseArgs()
		p.expectChar(')')
		if len(ids) == 1 {
			return &ast.NewInstance{Tok: tok, ClassName: ids[0], Args: args}
		}
		object := &ast.VariableValue{Tok: ast.DottedTok{Tok: tok}, Ids: ids[:len(ids)-1]}
		return &ast.MethodCall{Tok: tok, Object: object, Method: ids[len(ids)-1], Args: args}
	}

	return &ast.VariableValue{Tok: ast.DottedTok{Tok: tok}, Ids: ids}
}

func (p *Parser) parseArgs() []ast.Node {
	var args []ast.Node
	for !p.checkChar(')') {
		if len(args) > 0 {
			p.expectChar(',')
		}
		args = append(args, p.parseExpr())
	}
	return args
}

// --- token plumbing ---

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Simple(token.EOF, 0)
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool {
	return p.current().Kind == k
}

func (p *Parser) checkChar(c byte) bool {
	t := p.current()
	return t.Kind == token.CHAR && t.Char == c
}

func (p *Parser) expect(k token.Kind, msg string) token.Token {
	if !p.check(k) {
		p.failf(p.current().Line, "%s, found %s", msg, p.current())
	}
	return p.advance()
}

func (p *Parser) expectChar(c byte) token.Token {
	if !p.checkChar(c) {
		p.failf(p.current().Line, "expected %q, found %s", c, p.current())
	}
	return p.advance()
}

func (p *Parser) expectIdent() string {
	if !p.check(token.IDENT) {
		p.failf(p.current().Line, "expected an identifier, found %s", p.current())
	}
	return p.advance().Str
}

func (p *Parser) expectNewline() {
	p.expect(token.NEWLINE, "expected a newline")
}

func (p *Parser) failf(line int, format string, args ...interface{}) {
	panic(&ParseError{Line: line, Message: fmt.Sprintf(format, args...)})
}
