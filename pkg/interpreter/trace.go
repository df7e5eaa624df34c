package interpreter

import (
	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/source"
)

// Color is a 24-bit RGB highlight color.
type Color struct {
	R, G, B uint8
}

var (
	PrimaryColor   = Color{R: 50, G: 100, B: 50}
	SecondaryColor = Color{R: 50, G: 50, B: 150}
	ErrorColor     = Color{R: 150, G: 0, B: 0}
)

// Highlight marks an auxiliary region of source, usually an operand.
type Highlight struct {
	Span  source.Span
	Color Color
}

// Substitution replaces the source text of Span with an already computed
// value when the region is displayed.
type Substitution struct {
	Span source.Span
	Text string
}

// ScopeSnapshot is one frozen scope, bindings in declaration order.
type ScopeSnapshot struct {
	Bindings []runtime.Binding
}

// Snapshot is the interpreter state at a suspension point. Scopes run from
// outermost to innermost.
type Snapshot struct {
	Scopes []ScopeSnapshot
	Output string
}

// TraceRecord describes the operation the interpreter is about to commit.
// Records are deep copies: stepping further never changes one that has
// already been handed out.
type TraceRecord struct {
	Message       string
	Primary       source.Span
	Secondary     []Highlight
	Substitutions []Substitution
	Snapshot      Snapshot
}

// Lookup finds the innermost binding for name visible in the snapshot.
func (s Snapshot) Lookup(name string) (runtime.Binding, bool) {
	for i := len(s.Scopes) - 1; i >= 0; i-- {
		bindings := s.Scopes[i].Bindings
		for j := range bindings {
			if bindings[j].Name == name {
				return bindings[j], true
			}
		}
	}
	return runtime.Binding{}, false
}

func (i *Interpreter) snapshot() Snapshot {
	frames := i.scopes.Snapshot()
	scopes := make([]ScopeSnapshot, len(frames))
	for idx, frame := range frames {
		scopes[idx] = ScopeSnapshot{Bindings: frame}
	}
	return Snapshot{Scopes: scopes, Output: i.output.String()}
}

// operand builds the secondary highlight and substitution for an already
// evaluated sub-expression.
func operand(span source.Span, v runtime.Value) (Highlight, Substitution) {
	return Highlight{Span: span, Color: SecondaryColor}, Substitution{Span: span, Text: runtime.Repr(v)}
}
