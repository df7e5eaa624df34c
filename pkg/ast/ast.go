package ast

import (
	"math/big"

	"pel/interpreter-go/pkg/source"
)

type NodeType string

const (
	NodeIdentifier             NodeType = "Identifier"
	NodeIntegerLiteral         NodeType = "IntegerLiteral"
	NodeFloatLiteral           NodeType = "FloatLiteral"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeParenthesizedExpr      NodeType = "ParenthesizedExpression"
	NodeFunctionCall           NodeType = "FunctionCall"
	NodeShortCircuitExpression NodeType = "ShortCircuitExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeBlock                  NodeType = "Block"
	NodeExpressionStatement    NodeType = "ExpressionStatement"
	NodePrintStatement         NodeType = "PrintStatement"
	NodeVarDeclaration         NodeType = "VarDeclaration"
	NodeAssignment             NodeType = "Assignment"
	NodeIfStatement            NodeType = "IfStatement"
	NodeWhileLoop              NodeType = "WhileLoop"
)

type Node interface {
	NodeType() NodeType
	Span() source.Span
	isNode()
}

type nodeImpl struct {
	Type NodeType    `json:"type"`
	Loc  source.Span `json:"-"`
}

func newNodeImpl(kind NodeType, span source.Span) nodeImpl {
	return nodeImpl{Type: kind, Loc: span}
}

func (n *nodeImpl) NodeType() NodeType    { return n.Type }
func (n *nodeImpl) Span() source.Span     { return n.Loc }
func (n *nodeImpl) setSpan(s source.Span) { n.Loc = s }
func (*nodeImpl) isNode()                 {}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span source.Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(source.Span) }); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Operators

type UnaryOp string

const (
	UnaryNegate UnaryOp = "-"
	UnaryNot    UnaryOp = "!"
)

type BinaryOp string

const (
	BinaryEqual        BinaryOp = "=="
	BinaryNotEqual     BinaryOp = "!="
	BinaryGreater      BinaryOp = ">"
	BinaryGreaterEqual BinaryOp = ">="
	BinaryLess         BinaryOp = "<"
	BinaryLessEqual    BinaryOp = "<="
	BinaryAdd          BinaryOp = "+"
	BinarySubtract     BinaryOp = "-"
	BinaryMultiply     BinaryOp = "*"
	BinaryDivide       BinaryOp = "/"
	BinaryModulo       BinaryOp = "%"
)

// IsComparison reports whether the operator yields a bool from two operands
// of the same type.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEqual, BinaryNotEqual, BinaryGreater, BinaryGreaterEqual, BinaryLess, BinaryLessEqual:
		return true
	}
	return false
}

type ShortCircuitOp string

const (
	ShortCircuitOr  ShortCircuitOp = "||"
	ShortCircuitAnd ShortCircuitOp = "&&"
)

// Identifier is a variable reference.

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string, span source.Span) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, span), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int, span source.Span) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral, span), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64, span source.Span) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral, span), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string, span source.Span) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral, span), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool, span source.Span) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral, span), Value: value}
}

// Compound expressions

type ParenthesizedExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewParenthesizedExpression(inner Expression, span source.Span) *ParenthesizedExpression {
	return &ParenthesizedExpression{nodeImpl: newNodeImpl(NodeParenthesizedExpr, span), Inner: inner}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression, span source.Span) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall, span), Callee: callee, Arguments: args}
}

type ShortCircuitExpression struct {
	nodeImpl
	expressionMarker

	Operator     ShortCircuitOp `json:"operator"`
	OperatorSpan source.Span    `json:"-"`
	Left         Expression     `json:"left"`
	Right        Expression     `json:"right"`
}

func NewShortCircuitExpression(op source.Located[ShortCircuitOp], left, right Expression) *ShortCircuitExpression {
	return &ShortCircuitExpression{
		nodeImpl:     newNodeImpl(NodeShortCircuitExpression, joinSpans(left.Span(), right.Span())),
		Operator:     op.Value,
		OperatorSpan: op.Span,
		Left:         left,
		Right:        right,
	}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator     BinaryOp    `json:"operator"`
	OperatorSpan source.Span `json:"-"`
	Left         Expression  `json:"left"`
	Right        Expression  `json:"right"`
}

func NewBinaryExpression(op source.Located[BinaryOp], left, right Expression) *BinaryExpression {
	return &BinaryExpression{
		nodeImpl:     newNodeImpl(NodeBinaryExpression, joinSpans(left.Span(), right.Span())),
		Operator:     op.Value,
		OperatorSpan: op.Span,
		Left:         left,
		Right:        right,
	}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator     UnaryOp     `json:"operator"`
	OperatorSpan source.Span `json:"-"`
	Operand      Expression  `json:"operand"`
}

func NewUnaryExpression(op source.Located[UnaryOp], operand Expression) *UnaryExpression {
	return &UnaryExpression{
		nodeImpl:     newNodeImpl(NodeUnaryExpression, joinSpans(op.Span, operand.Span())),
		Operator:     op.Value,
		OperatorSpan: op.Span,
		Operand:      operand,
	}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement, span source.Span) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, span), Body: body}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression, span source.Span) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement, span), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewPrintStatement(value Expression, span source.Span) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement, span), Value: value}
}

// VarDeclaration introduces a variable in the innermost scope. Initializer
// is nil for `var x;`.
type VarDeclaration struct {
	nodeImpl
	statementMarker

	Name        string     `json:"name"`
	Initializer Expression `json:"initializer,omitempty"`
}

func NewVarDeclaration(name string, initializer Expression, span source.Span) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration, span), Name: name, Initializer: initializer}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignment(target *Identifier, value Expression, span source.Span) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment, span), Target: target, Value: value}
}

// IfStatement keeps the span of the `if` keyword for highlighting. Else is
// nil, a *Block, or a nested *IfStatement.
type IfStatement struct {
	nodeImpl
	statementMarker

	KeywordSpan source.Span `json:"-"`
	Condition   Expression  `json:"condition"`
	Then        *Block      `json:"then"`
	Else        Statement   `json:"else,omitempty"`
}

func NewIfStatement(keyword source.Span, cond Expression, then *Block, els Statement, span source.Span) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement, span), KeywordSpan: keyword, Condition: cond, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	KeywordSpan source.Span `json:"-"`
	Condition   Expression  `json:"condition"`
	Body        *Block      `json:"body"`
}

func NewWhileLoop(keyword source.Span, cond Expression, body *Block, span source.Span) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop, span), KeywordSpan: keyword, Condition: cond, Body: body}
}

// joinSpans tolerates nodes built without source positions.
func joinSpans(a, b source.Span) source.Span {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	default:
		return a.Join(b)
	}
}
