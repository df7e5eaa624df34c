package ast

import (
	"math/big"

	"pel/interpreter-go/pkg/source"
)

// Compact constructors for building programs by hand. Nodes built here carry
// zero spans.

var noSpan source.Span

func ID(name string) *Identifier { return NewIdentifier(name, noSpan) }

func Int(v int64) *IntegerLiteral { return NewIntegerLiteral(big.NewInt(v), noSpan) }

func Flt(v float64) *FloatLiteral { return NewFloatLiteral(v, noSpan) }

func Str(v string) *StringLiteral { return NewStringLiteral(v, noSpan) }

func Bool(v bool) *BooleanLiteral { return NewBooleanLiteral(v, noSpan) }

func Paren(inner Expression) *ParenthesizedExpression {
	return NewParenthesizedExpression(inner, noSpan)
}

func Call(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args, noSpan)
}

func Bin(op BinaryOp, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(source.Located[BinaryOp]{Value: op}, left, right)
}

func Or(left, right Expression) *ShortCircuitExpression {
	return NewShortCircuitExpression(source.Located[ShortCircuitOp]{Value: ShortCircuitOr}, left, right)
}

func And(left, right Expression) *ShortCircuitExpression {
	return NewShortCircuitExpression(source.Located[ShortCircuitOp]{Value: ShortCircuitAnd}, left, right)
}

func Un(op UnaryOp, operand Expression) *UnaryExpression {
	return NewUnaryExpression(source.Located[UnaryOp]{Value: op}, operand)
}

func Blk(body ...Statement) *Block { return NewBlock(body, noSpan) }

func Expr(e Expression) *ExpressionStatement { return NewExpressionStatement(e, noSpan) }

func Print(e Expression) *PrintStatement { return NewPrintStatement(e, noSpan) }

func Var(name string, init Expression) *VarDeclaration {
	return NewVarDeclaration(name, init, noSpan)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value, noSpan)
}

func If(cond Expression, then *Block, els Statement) *IfStatement {
	return NewIfStatement(noSpan, cond, then, els, noSpan)
}

func While(cond Expression, body *Block) *WhileLoop {
	return NewWhileLoop(noSpan, cond, body, noSpan)
}
