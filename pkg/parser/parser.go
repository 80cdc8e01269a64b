// Package parser implements a recursive descent, precedence-climbing
// parser that turns a token stream from pkg/lexer into a Mellow AST.
package parser

import (
	"strconv"

	"github.com/mellow-lang/mellowc/pkg/ast"
	"github.com/mellow-lang/mellowc/pkg/compileerr"
	"github.com/mellow-lang/mellowc/pkg/lexer"
)

// Parser parses a token stream into an ast.Body.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// parseAbort carries the first error encountered while parsing, unwound via
// panic/recover so callers deep in the recursive descent don't need to
// thread an error return through every helper.
type parseAbort struct{ err *compileerr.Error }

// Parse tokenizes nothing itself; it drives l through a Parser and returns
// the parsed program, or the first error encountered.
func Parse(l *lexer.Lexer) (body ast.Body, err error) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			err = abort.err
		}
	}()
	p := New(l)
	return p.parseStatements(), nil
}

// nextToken advances the lookahead window by one token. An illegal byte is
// reported as a LexError at the point the lexer produces it, rather than
// left for the parser to misreport as an unexpected token downstream.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == lexer.TokenIllegal {
		p.fail(compileerr.InvalidCharacter(p.peekToken.Literal[0], p.peekToken.Line, p.peekToken.Column))
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool { return p.curToken.Type == t }

func (p *Parser) fail(err *compileerr.Error) {
	panic(parseAbort{err})
}

func (p *Parser) unexpected(expected string) {
	p.fail(compileerr.ExpectedButGot(expected, p.curToken.Type.String(), p.curToken.Line, p.curToken.Column))
}

// expect consumes curToken if it matches t, aborting the parse otherwise.
// It returns the consumed token so callers can read its literal.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.curToken.Type != t {
		p.unexpected(t.String())
	}
	tok := p.curToken
	p.nextToken()
	return tok
}

// parseStatements parses statements until curToken is one of the given
// terminators, or end of input. It does not consume the terminator.
func (p *Parser) parseStatements(terminators ...lexer.TokenType) ast.Body {
	var body ast.Body
	for !p.curTokenIs(lexer.TokenEOF) && !p.atTerminator(terminators) {
		body = append(body, p.parseStatement())
	}
	return body
}

func (p *Parser) atTerminator(terminators []lexer.TokenType) bool {
	for _, t := range terminators {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.TokenLet:
		return p.parseLet()
	case lexer.TokenIdent:
		return p.parseAssign()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenDebug:
		return p.parseDebug()
	default:
		p.unexpected("statement")
		return nil
	}
}

func (p *Parser) parseLet() ast.Statement {
	p.expect(lexer.TokenLet)
	mutable := false
	if p.curTokenIs(lexer.TokenMutable) {
		mutable = true
		p.nextToken()
	}
	name := p.expect(lexer.TokenIdent)
	p.expect(lexer.TokenAssign)
	value := p.parseExpression()
	return ast.Let{
		Identifier: ast.Identifier{Name: name.Literal},
		Mutable:    mutable,
		Value:      value,
	}
}

func (p *Parser) parseAssign() ast.Statement {
	name := p.expect(lexer.TokenIdent)
	p.expect(lexer.TokenAssign)
	value := p.parseExpression()
	return ast.Assign{
		Identifier: ast.Identifier{Name: name.Literal},
		Value:      value,
	}
}

// parseIf parses `if <cond> then <body> [or <cond> then <body>]* [else
// <body>] end`.
func (p *Parser) parseIf() ast.Statement {
	p.expect(lexer.TokenIf)
	ifBranch := p.parseBranch()

	var orBranches []ast.Branch
	for p.curTokenIs(lexer.TokenOr) {
		p.nextToken()
		orBranches = append(orBranches, p.parseBranch())
	}

	var elseBody *ast.Body
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		body := p.parseStatements(lexer.TokenEnd)
		elseBody = &body
	}
	p.expect(lexer.TokenEnd)

	return ast.If{If: ifBranch, Or: orBranches, Else: elseBody}
}

func (p *Parser) parseBranch() ast.Branch {
	condition := p.parseExpression()
	p.expect(lexer.TokenThen)
	body := p.parseStatements(lexer.TokenOr, lexer.TokenElse, lexer.TokenEnd)
	return ast.Branch{Condition: condition, Body: body}
}

func (p *Parser) parseWhile() ast.Statement {
	p.expect(lexer.TokenWhile)
	condition := p.parseExpression()
	p.expect(lexer.TokenDo)
	body := p.parseStatements(lexer.TokenEnd)
	p.expect(lexer.TokenEnd)
	return ast.While{Condition: condition, Body: body}
}

func (p *Parser) parseDebug() ast.Statement {
	p.expect(lexer.TokenDebug)
	return ast.Debug{Value: p.parseExpression()}
}

// Binary operator precedence, low to high: comparisons, then add/sub, then
// mul/div. Unary operators bind tighter than any binary operator.
func binaryPrecedence(t lexer.TokenType) int {
	switch t {
	case lexer.TokenGreater, lexer.TokenLess, lexer.TokenQuestion:
		return 1
	case lexer.TokenPlus, lexer.TokenMinus:
		return 2
	case lexer.TokenStar, lexer.TokenSlash:
		return 3
	default:
		return 0
	}
}

func binaryKind(t lexer.TokenType) ast.BinaryKind {
	switch t {
	case lexer.TokenPlus:
		return ast.Add
	case lexer.TokenMinus:
		return ast.Subtract
	case lexer.TokenStar:
		return ast.Multiply
	case lexer.TokenSlash:
		return ast.Divide
	case lexer.TokenGreater:
		return ast.Greater
	case lexer.TokenLess:
		return ast.Less
	case lexer.TokenQuestion:
		return ast.Equal
	default:
		compileerr.Bug("binaryKind: token %s is not a binary operator", t)
		panic("unreachable")
	}
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseBinary(1)
}

// parseBinary implements precedence climbing: it parses a unary expression
// and then folds in trailing binary operators whose precedence is at least
// minPrecedence, recursing with that operator's precedence plus one on the
// right-hand side to keep every operator left-associative.
func (p *Parser) parseBinary(minPrecedence int) ast.Expression {
	left := p.parseUnary()
	for {
		prec := binaryPrecedence(p.curToken.Type)
		if prec == 0 || prec < minPrecedence {
			return left
		}
		kind := binaryKind(p.curToken.Type)
		p.nextToken()
		right := p.parseBinary(prec + 1)
		left = ast.Binary{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Type {
	case lexer.TokenMinus:
		p.nextToken()
		return ast.Unary{Kind: ast.Negate, Inner: p.parseUnary()}
	case lexer.TokenNot:
		p.nextToken()
		return ast.Unary{Kind: ast.Not, Inner: p.parseUnary()}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case lexer.TokenInt:
		tok := p.curToken
		p.nextToken()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.fail(compileerr.ExpectedButGot("integer literal", tok.Literal, tok.Line, tok.Column))
		}
		return ast.Integer{Value: value}
	case lexer.TokenString:
		tok := p.curToken
		p.nextToken()
		return ast.Str{Value: tok.Literal}
	case lexer.TokenTrue:
		p.nextToken()
		return ast.Boolean{Value: true}
	case lexer.TokenFalse:
		p.nextToken()
		return ast.Boolean{Value: false}
	case lexer.TokenIdent:
		tok := p.curToken
		p.nextToken()
		return ast.Identifier{Name: tok.Literal}
	case lexer.TokenLParen:
		p.nextToken()
		inner := p.parseExpression()
		p.expect(lexer.TokenRParen)
		return inner
	default:
		p.unexpected("expression")
		return nil
	}
}
