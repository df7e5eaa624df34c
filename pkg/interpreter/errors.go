package interpreter

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/source"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	VarUninitialized ErrorKind = iota
	VarDoesNotExist
	InvalidTypeForShortCircuitOp
	InvalidTypesForBinaryOp
	InvalidTypeForUnaryOp
	ExpectedBool
	DivisionByZero
	UnsupportedExpression
)

func (k ErrorKind) String() string {
	switch k {
	case VarUninitialized:
		return "VarUninitialized"
	case VarDoesNotExist:
		return "VarDoesNotExist"
	case InvalidTypeForShortCircuitOp:
		return "InvalidTypeForShortCircuitOp"
	case InvalidTypesForBinaryOp:
		return "InvalidTypesForBinaryOp"
	case InvalidTypeForUnaryOp:
		return "InvalidTypeForUnaryOp"
	case ExpectedBool:
		return "ExpectedBool"
	case DivisionByZero:
		return "DivisionByZero"
	case UnsupportedExpression:
		return "UnsupportedExpression"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// RuntimeError aborts evaluation. Which payload fields are set depends on
// Kind; the message is derived from them alone.
type RuntimeError struct {
	Kind       ErrorKind
	Span       source.Span
	Name       string
	Operator   string
	Types      []runtime.Kind
	Suggestion string
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case VarUninitialized:
		return fmt.Sprintf("variable '%s' is uninitialized", e.Name)
	case VarDoesNotExist:
		if e.Suggestion != "" {
			return fmt.Sprintf("variable '%s' does not exist; did you mean '%s'?", e.Name, e.Suggestion)
		}
		return fmt.Sprintf("variable '%s' does not exist", e.Name)
	case InvalidTypeForShortCircuitOp:
		return fmt.Sprintf("operator '%s' requires bool operands, got %s", e.Operator, e.typeAt(0))
	case InvalidTypesForBinaryOp:
		return fmt.Sprintf("invalid operand types for '%s': %s and %s", e.Operator, e.typeAt(0), e.typeAt(1))
	case InvalidTypeForUnaryOp:
		return fmt.Sprintf("invalid operand type for '%s': %s", e.Operator, e.typeAt(0))
	case ExpectedBool:
		return fmt.Sprintf("expected bool condition, got %s", e.typeAt(0))
	case DivisionByZero:
		return fmt.Sprintf("division by zero in '%s'", e.Operator)
	case UnsupportedExpression:
		return "function calls are not supported"
	default:
		return e.Kind.String()
	}
}

func (e *RuntimeError) typeAt(i int) string {
	if i < len(e.Types) {
		return e.Types[i].String()
	}
	return "?"
}

func errUninitialized(span source.Span, name string) *RuntimeError {
	return &RuntimeError{Kind: VarUninitialized, Span: span, Name: name}
}

func errDoesNotExist(span source.Span, name string, visible []string) *RuntimeError {
	return &RuntimeError{Kind: VarDoesNotExist, Span: span, Name: name, Suggestion: suggestName(name, visible)}
}

func errTypes(kind ErrorKind, span source.Span, op string, values ...runtime.Value) *RuntimeError {
	types := make([]runtime.Kind, len(values))
	for i, v := range values {
		types[i] = v.Kind()
	}
	return &RuntimeError{Kind: kind, Span: span, Operator: op, Types: types}
}

// suggestName picks the visible name closest to a misspelled one, or "".
// Candidates come innermost scope first, which breaks ties.
func suggestName(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", len(name)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
