package interpreter

import (
	"math"
	"math/big"
	"strings"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/runtime"
)

// applyBinaryOperator computes left op right. When ok is false, failure says
// why: mismatched operand types or a zero divisor.
func applyBinaryOperator(op ast.BinaryOp, left, right runtime.Value) (result runtime.Value, failure ErrorKind, ok bool) {
	if op.IsComparison() {
		c, same := compareValues(left, right)
		if !same {
			return nil, InvalidTypesForBinaryOp, false
		}
		return runtime.BoolValue{Val: comparisonHolds(op, c, left, right)}, 0, true
	}

	switch l := left.(type) {
	case runtime.IntegerValue:
		r, same := right.(runtime.IntegerValue)
		if !same {
			return nil, InvalidTypesForBinaryOp, false
		}
		return integerArithmetic(op, l.Val, r.Val)
	case runtime.FloatValue:
		r, same := right.(runtime.FloatValue)
		if !same {
			return nil, InvalidTypesForBinaryOp, false
		}
		return floatArithmetic(op, l.Val, r.Val)
	case runtime.StringValue:
		r, same := right.(runtime.StringValue)
		if !same || op != ast.BinaryAdd {
			return nil, InvalidTypesForBinaryOp, false
		}
		return runtime.StringValue{Val: l.Val + r.Val}, 0, true
	default:
		return nil, InvalidTypesForBinaryOp, false
	}
}

func integerArithmetic(op ast.BinaryOp, l, r *big.Int) (runtime.Value, ErrorKind, bool) {
	out := new(big.Int)
	switch op {
	case ast.BinaryAdd:
		out.Add(l, r)
	case ast.BinarySubtract:
		out.Sub(l, r)
	case ast.BinaryMultiply:
		out.Mul(l, r)
	case ast.BinaryDivide, ast.BinaryModulo:
		if r.Sign() == 0 {
			return nil, DivisionByZero, false
		}
		// truncated division: the remainder takes the sign of the dividend
		if op == ast.BinaryDivide {
			out.Quo(l, r)
		} else {
			out.Rem(l, r)
		}
	default:
		return nil, InvalidTypesForBinaryOp, false
	}
	return runtime.IntegerValue{Val: out}, 0, true
}

func floatArithmetic(op ast.BinaryOp, l, r float64) (runtime.Value, ErrorKind, bool) {
	var out float64
	switch op {
	case ast.BinaryAdd:
		out = l + r
	case ast.BinarySubtract:
		out = l - r
	case ast.BinaryMultiply:
		out = l * r
	case ast.BinaryDivide:
		if r == 0 {
			return nil, DivisionByZero, false
		}
		out = l / r
	case ast.BinaryModulo:
		if r == 0 {
			return nil, DivisionByZero, false
		}
		out = math.Mod(l, r)
	default:
		return nil, InvalidTypesForBinaryOp, false
	}
	return runtime.FloatValue{Val: out}, 0, true
}

// compareValues orders two values of the same kind. Booleans order false
// before true.
func compareValues(left, right runtime.Value) (int, bool) {
	switch l := left.(type) {
	case runtime.IntegerValue:
		if r, ok := right.(runtime.IntegerValue); ok {
			return l.Val.Cmp(r.Val), true
		}
	case runtime.FloatValue:
		if r, ok := right.(runtime.FloatValue); ok {
			switch {
			case l.Val < r.Val:
				return -1, true
			case l.Val > r.Val:
				return 1, true
			default:
				return 0, true
			}
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return strings.Compare(l.Val, r.Val), true
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return boolRank(l.Val) - boolRank(r.Val), true
		}
	}
	return 0, false
}

func comparisonHolds(op ast.BinaryOp, c int, left, right runtime.Value) bool {
	// NaN compares unequal to everything, itself included
	if isNaN(left) || isNaN(right) {
		return op == ast.BinaryNotEqual
	}
	switch op {
	case ast.BinaryEqual:
		return c == 0
	case ast.BinaryNotEqual:
		return c != 0
	case ast.BinaryGreater:
		return c > 0
	case ast.BinaryGreaterEqual:
		return c >= 0
	case ast.BinaryLess:
		return c < 0
	case ast.BinaryLessEqual:
		return c <= 0
	default:
		return false
	}
}

func isNaN(v runtime.Value) bool {
	f, ok := v.(runtime.FloatValue)
	return ok && math.IsNaN(f.Val)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func applyUnaryOperator(op ast.UnaryOp, v runtime.Value) (runtime.Value, bool) {
	switch op {
	case ast.UnaryNegate:
		switch val := v.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: new(big.Int).Neg(val.Val)}, true
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -val.Val}, true
		}
	case ast.UnaryNot:
		if b, ok := v.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: !b.Val}, true
		}
	}
	return nil, false
}
