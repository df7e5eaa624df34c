package parser

import (
	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/source"
)

var unsupportedStatements = map[TokenType]string{
	KwFor:      "'for' loops are not supported",
	KwBreak:    "'break' is not supported",
	KwContinue: "'continue' is not supported",
	KwReturn:   "'return' is not supported",
	KwFn:       "function definitions are not supported",
}

func (p *Parser) statement() (ast.Statement, *SyntaxError) {
	tok := p.peekToken()
	if msg, ok := unsupportedStatements[tok.Value.Type]; ok {
		return nil, newSyntaxError(tok.Span, "%s", msg)
	}
	switch tok.Value.Type {
	case LBrace:
		return p.block(p.next())
	case KwIf:
		return p.ifStatement(p.next())
	case KwWhile:
		return p.whileStatement(p.next())
	case KwVar:
		return p.varStatement(p.next())
	case KwMake:
		return p.makeVarStatement(p.next())
	case KwAssign:
		return p.assignStatement(p.next())
	case KwPrint:
		return p.printStatement(p.next())
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(Equal); ok {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(Semicolon, "expected ';' after assignment statement")
		if err != nil {
			return nil, err
		}
		return makeAssignment(expr, value, expr.Span().Join(semi.Span))
	}
	semi, err := p.expect(Semicolon, "expected ';' after expression statement")
	if err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr, expr.Span().Join(semi.Span)), nil
}

// block parses the statements following an already consumed '{'.
func (p *Parser) block(open source.Located[Token]) (*ast.Block, *SyntaxError) {
	var body []ast.Statement
	for !p.check(RBrace) && !p.check(EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	closing, err := p.expect(RBrace, "expected '}' to close block")
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(body, open.Span.Join(closing.Span)), nil
}

func (p *Parser) ifStatement(kw source.Located[Token]) (*ast.IfStatement, *SyntaxError) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	open, err := p.expect(LBrace, "expected '{' after condition of 'if' statement")
	if err != nil {
		return nil, err
	}
	then, err := p.block(open)
	if err != nil {
		return nil, err
	}
	span := kw.Span.Join(then.Span())
	if _, ok := p.accept(KwElse); !ok {
		return ast.NewIfStatement(kw.Span, cond, then, nil, span), nil
	}

	var els ast.Statement
	if nested, ok := p.accept(KwIf); ok {
		elseIf, err := p.ifStatement(nested)
		if err != nil {
			return nil, err
		}
		els = elseIf
	} else {
		open, err := p.expect(LBrace, "expected either 'if' or '{' after 'else'")
		if err != nil {
			return nil, err
		}
		elseBlock, err := p.block(open)
		if err != nil {
			return nil, err
		}
		els = elseBlock
	}
	return ast.NewIfStatement(kw.Span, cond, then, els, kw.Span.Join(els.Span())), nil
}

func (p *Parser) whileStatement(kw source.Located[Token]) (*ast.WhileLoop, *SyntaxError) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	open, err := p.expect(LBrace, "expected '{' after condition of 'while' loop")
	if err != nil {
		return nil, err
	}
	body, err := p.block(open)
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(kw.Span, cond, body, kw.Span.Join(body.Span())), nil
}

func (p *Parser) varStatement(kw source.Located[Token]) (*ast.VarDeclaration, *SyntaxError) {
	name, err := p.expect(Identifier, "expected variable name after 'var'")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if _, ok := p.accept(Equal); ok {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(Semicolon, "expected ';' after 'var' statement")
	if err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(name.Value.Text, init, kw.Span.Join(semi.Span)), nil
}

func (p *Parser) makeVarStatement(kw source.Located[Token]) (*ast.VarDeclaration, *SyntaxError) {
	if _, err := p.expect(KwVar, "expected 'var' after 'make'"); err != nil {
		return nil, err
	}
	name, err := p.expect(Identifier, "expected variable name after 'var'")
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(Semicolon, "expected ';' after 'make var' statement")
	if err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(name.Value.Text, nil, kw.Span.Join(semi.Span)), nil
}

func (p *Parser) assignStatement(kw source.Located[Token]) (ast.Statement, *SyntaxError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KwTo, "expected 'to'"); err != nil {
		return nil, err
	}
	target, err := p.expression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(Semicolon, "expected ';' after 'assign' statement")
	if err != nil {
		return nil, err
	}
	return makeAssignment(target, value, kw.Span.Join(semi.Span))
}

func (p *Parser) printStatement(kw source.Located[Token]) (*ast.PrintStatement, *SyntaxError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(Semicolon, "expected ';' after 'print' statement")
	if err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value, kw.Span.Join(semi.Span)), nil
}

func makeAssignment(target, value ast.Expression, span source.Span) (ast.Statement, *SyntaxError) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		return nil, newSyntaxError(target.Span(), "invalid assignment target")
	}
	return ast.NewAssignment(id, value, span), nil
}
