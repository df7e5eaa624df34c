package parser

import (
	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/source"
)

// Parser is a recursive-descent parser over a single source file with one
// token of lookahead.
type Parser struct {
	lexer *lexer
	peek  *source.Located[Token]
}

// New constructs a parser for the given file.
func New(file *source.File) *Parser {
	return &Parser{lexer: newLexer(file)}
}

// ParseProgram parses every statement of a file.
func ParseProgram(file *source.File) ([]ast.Statement, error) {
	return New(file).ParseProgram()
}

// ParseExpression parses a file holding exactly one expression.
func ParseExpression(file *source.File) (ast.Expression, error) {
	return New(file).ParseExpression()
}

// ParseProgram parses statements until end of input. Parsing stops at the
// first syntax error; lexical errors seen so far are reported with it.
func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.check(EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, p.fail(err)
		}
		stmts = append(stmts, stmt)
	}
	if err := p.lexer.errs.Err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ParseExpression parses one expression and rejects trailing input.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, p.fail(err)
	}
	if tok := p.peekToken(); tok.Value.Type != EOF {
		return nil, p.fail(newSyntaxError(tok.Span, "extraneous input"))
	}
	if err := p.lexer.errs.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) fail(err *SyntaxError) error {
	errs := append(ErrorList{}, p.lexer.errs...)
	return append(errs, err)
}

func (p *Parser) peekToken() source.Located[Token] {
	if p.peek == nil {
		tok := p.lexer.next()
		p.peek = &tok
	}
	return *p.peek
}

func (p *Parser) next() source.Located[Token] {
	tok := p.peekToken()
	p.peek = nil
	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peekToken().Value.Type == typ
}

// accept consumes the next token when it has the given type.
func (p *Parser) accept(typ TokenType) (source.Located[Token], bool) {
	if !p.check(typ) {
		return source.Located[Token]{}, false
	}
	return p.next(), true
}

// expect consumes a token of the given type or fails with msg.
func (p *Parser) expect(typ TokenType, msg string) (source.Located[Token], *SyntaxError) {
	tok := p.next()
	if tok.Value.Type != typ {
		return tok, newSyntaxError(tok.Span, "%s", msg)
	}
	return tok, nil
}
