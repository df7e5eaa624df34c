package parser

import (
	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/source"
)

// binaryLevels lists the left-associative binary operator levels from
// loosest to tightest binding.
var binaryLevels = []map[TokenType]ast.BinaryOp{
	{
		DoubleEqual: ast.BinaryEqual,
		BangEqual:   ast.BinaryNotEqual,
	},
	{
		Greater:      ast.BinaryGreater,
		GreaterEqual: ast.BinaryGreaterEqual,
		Less:         ast.BinaryLess,
		LessEqual:    ast.BinaryLessEqual,
	},
	{
		Plus:  ast.BinaryAdd,
		Minus: ast.BinarySubtract,
	},
	{
		Star:    ast.BinaryMultiply,
		Slash:   ast.BinaryDivide,
		Percent: ast.BinaryModulo,
	},
}

func (p *Parser) expression() (ast.Expression, *SyntaxError) {
	return p.or()
}

func (p *Parser) or() (ast.Expression, *SyntaxError) {
	return p.shortCircuit(DoublePipe, ast.ShortCircuitOr, p.and)
}

func (p *Parser) and() (ast.Expression, *SyntaxError) {
	return p.shortCircuit(DoubleAmper, ast.ShortCircuitAnd, func() (ast.Expression, *SyntaxError) {
		return p.binary(0)
	})
}

func (p *Parser) shortCircuit(typ TokenType, op ast.ShortCircuitOp, operand func() (ast.Expression, *SyntaxError)) (ast.Expression, *SyntaxError) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.accept(typ)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = ast.NewShortCircuitExpression(source.Located[ast.ShortCircuitOp]{Span: tok.Span, Value: op}, left, right)
	}
}

func (p *Parser) binary(level int) (ast.Expression, *SyntaxError) {
	if level >= len(binaryLevels) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peekToken()
		op, ok := binaryLevels[level][tok.Value.Type]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(source.Located[ast.BinaryOp]{Span: tok.Span, Value: op}, left, right)
	}
}

func (p *Parser) unary() (ast.Expression, *SyntaxError) {
	var op ast.UnaryOp
	switch p.peekToken().Value.Type {
	case Bang:
		op = ast.UnaryNot
	case Minus:
		op = ast.UnaryNegate
	default:
		return p.call()
	}
	tok := p.next()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryExpression(source.Located[ast.UnaryOp]{Span: tok.Span, Value: op}, operand), nil
}

func (p *Parser) call() (ast.Expression, *SyntaxError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(LParen); !ok {
			return expr, nil
		}
		var args []ast.Expression
		if !p.check(RParen) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if _, ok := p.accept(Comma); !ok {
					break
				}
			}
		}
		closing, serr := p.expect(RParen, "expected ')' after arguments")
		if serr != nil {
			return nil, serr
		}
		expr = ast.NewFunctionCall(expr, args, expr.Span().Join(closing.Span))
	}
}

func (p *Parser) primary() (ast.Expression, *SyntaxError) {
	tok := p.next()
	switch tok.Value.Type {
	case Identifier:
		return ast.NewIdentifier(tok.Value.Text, tok.Span), nil
	case IntLit:
		return ast.NewIntegerLiteral(tok.Value.Int, tok.Span), nil
	case FloatLit:
		return ast.NewFloatLiteral(tok.Value.Float, tok.Span), nil
	case StringLit:
		return ast.NewStringLiteral(tok.Value.Text, tok.Span), nil
	case BoolLit:
		return ast.NewBooleanLiteral(tok.Value.Bool, tok.Span), nil
	case LParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		closing, serr := p.expect(RParen, "expected ')' to close parenthesized expression")
		if serr != nil {
			return nil, serr
		}
		return ast.NewParenthesizedExpression(inner, tok.Span.Join(closing.Span)), nil
	default:
		return nil, newSyntaxError(tok.Span, "expected expression")
	}
}
