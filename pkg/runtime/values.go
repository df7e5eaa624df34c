package runtime

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind identifies the runtime value category. It doubles as the language's
// type: every value has exactly one Kind.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// IntegerValue is an arbitrary precision integer. Val is never mutated once
// the value has been constructed.
type IntegerValue struct {
	Val *big.Int
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// Equal compares by numeric value so deep comparisons ignore big.Int
// internals.
func (v IntegerValue) Equal(other IntegerValue) bool {
	switch {
	case v.Val == nil || other.Val == nil:
		return v.Val == other.Val
	default:
		return v.Val.Cmp(other.Val) == 0
	}
}

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// NewInteger copies i so the result does not alias caller-owned storage.
func NewInteger(i *big.Int) IntegerValue {
	return IntegerValue{Val: new(big.Int).Set(i)}
}

func NewInt64(i int64) IntegerValue {
	return IntegerValue{Val: big.NewInt(i)}
}

// Clone returns a value that shares no mutable storage with v.
func Clone(v Value) Value {
	switch val := v.(type) {
	case IntegerValue:
		if val.Val == nil {
			return val
		}
		return NewInteger(val.Val)
	default:
		return v
	}
}

// Display renders a value the way `print` writes it.
func Display(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return val.Val.String()
	case FloatValue:
		return formatFloat(val.Val)
	case StringValue:
		return val.Val
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case nil:
		return "<uninitialized>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Repr renders a value for diagnostics and trace messages; strings are
// quoted, everything else matches Display.
func Repr(v Value) string {
	if s, ok := v.(StringValue); ok {
		return strconv.Quote(s.Val)
	}
	return Display(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
