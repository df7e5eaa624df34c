package interpreter

import (
	"fmt"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Identifier:
		return i.evaluateIdentifier(n)
	case *ast.IntegerLiteral:
		return runtime.NewInteger(n.Value), nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.ParenthesizedExpression:
		return i.evaluateExpression(n.Inner)
	case *ast.FunctionCall:
		return nil, &RuntimeError{Kind: UnsupportedExpression, Span: n.Span()}
	case *ast.ShortCircuitExpression:
		return i.evaluateShortCircuit(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier) (runtime.Value, error) {
	if err := i.announce(TraceRecord{
		Message: fmt.Sprintf("read variable '%s'", id.Name),
		Primary: id.Span(),
	}); err != nil {
		return nil, err
	}
	b, ok := i.scopes.Lookup(id.Name)
	switch {
	case !ok:
		return nil, errDoesNotExist(id.Span(), id.Name, i.scopes.Names())
	case !b.Initialized():
		return nil, errUninitialized(id.Span(), id.Name)
	}
	return runtime.Clone(b.Value), nil
}

// evaluateShortCircuit has no suspension of its own; the operands announce
// themselves. The right operand is only evaluated when needed.
func (i *Interpreter) evaluateShortCircuit(expr *ast.ShortCircuitExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(runtime.BoolValue)
	if !ok {
		return nil, errTypes(InvalidTypeForShortCircuitOp, expr.Left.Span(), string(expr.Operator), left)
	}
	switch {
	case expr.Operator == ast.ShortCircuitOr && lb.Val:
		return lb, nil
	case expr.Operator == ast.ShortCircuitAnd && !lb.Val:
		return lb, nil
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	if _, ok := right.(runtime.BoolValue); !ok {
		return nil, errTypes(InvalidTypeForShortCircuitOp, expr.Right.Span(), string(expr.Operator), right)
	}
	return right, nil
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	lh, ls := operand(expr.Left.Span(), left)
	rh, rs := operand(expr.Right.Span(), right)
	if err := i.announce(TraceRecord{
		Message:       fmt.Sprintf("evaluate operation '%s'", expr.Operator),
		Primary:       expr.OperatorSpan,
		Secondary:     []Highlight{lh, rh},
		Substitutions: []Substitution{ls, rs},
	}); err != nil {
		return nil, err
	}
	result, failure, ok := applyBinaryOperator(expr.Operator, left, right)
	if !ok {
		return nil, errTypes(failure, expr.OperatorSpan, string(expr.Operator), left, right)
	}
	return result, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	value, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	h, s := operand(expr.Operand.Span(), value)
	if err := i.announce(TraceRecord{
		Message:       fmt.Sprintf("evaluate operation '%s'", expr.Operator),
		Primary:       expr.OperatorSpan,
		Secondary:     []Highlight{h},
		Substitutions: []Substitution{s},
	}); err != nil {
		return nil, err
	}
	result, ok := applyUnaryOperator(expr.Operator, value)
	if !ok {
		return nil, errTypes(InvalidTypeForUnaryOp, expr.OperatorSpan, string(expr.Operator), value)
	}
	return result, nil
}
