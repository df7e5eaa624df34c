package runtime

import (
	"pel/interpreter-go/pkg/source"
)

// Binding is one variable slot. A nil Value means the variable was declared
// without an initializer and has not been assigned yet.
type Binding struct {
	Name  string
	Decl  source.Span
	Value Value
}

// Initialized reports whether the binding holds a value.
func (b *Binding) Initialized() bool { return b.Value != nil }

// scope keeps bindings in declaration order; index maps a name to its slot.
type scope struct {
	bindings []*Binding
	index    map[string]int
}

func newScope() *scope {
	return &scope{index: make(map[string]int)}
}

// Scopes is the lexical scope stack. Lookups search from the innermost
// scope outward; Define always targets the innermost scope.
type Scopes struct {
	stack []*scope
}

// NewScopes creates an empty stack.
func NewScopes() *Scopes {
	return &Scopes{}
}

// Depth returns the number of open scopes.
func (s *Scopes) Depth() int { return len(s.stack) }

// StartScope pushes an empty scope.
func (s *Scopes) StartScope() {
	s.stack = append(s.stack, newScope())
}

// EndScope pops the innermost scope. Popping an empty stack is a bug in the
// caller and panics.
func (s *Scopes) EndScope() {
	if len(s.stack) == 0 {
		panic("runtime: EndScope with no open scope")
	}
	s.stack[len(s.stack)-1] = nil
	s.stack = s.stack[:len(s.stack)-1]
}

// Define inserts or overwrites a binding in the innermost scope. Redefining a
// name in the same scope keeps its original position.
func (s *Scopes) Define(name string, decl source.Span, value Value) {
	if len(s.stack) == 0 {
		panic("runtime: Define with no open scope")
	}
	if value != nil {
		value = Clone(value)
	}
	top := s.stack[len(s.stack)-1]
	b := &Binding{Name: name, Decl: decl, Value: value}
	if i, ok := top.index[name]; ok {
		top.bindings[i] = b
		return
	}
	top.index[name] = len(top.bindings)
	top.bindings = append(top.bindings, b)
}

// Lookup returns a copy of the innermost binding for name.
func (s *Scopes) Lookup(name string) (Binding, bool) {
	b := s.LookupMut(name)
	if b == nil {
		return Binding{}, false
	}
	return *b, true
}

// LookupMut returns the live innermost binding for name, or nil. Writes
// through the pointer are visible to later lookups and snapshots taken
// afterwards, never to earlier snapshots.
func (s *Scopes) LookupMut(name string) *Binding {
	for i := len(s.stack) - 1; i >= 0; i-- {
		sc := s.stack[i]
		if idx, ok := sc.index[name]; ok {
			return sc.bindings[idx]
		}
	}
	return nil
}

// Names lists every visible name once, innermost scope first.
func (s *Scopes) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for i := len(s.stack) - 1; i >= 0; i-- {
		for _, b := range s.stack[i].bindings {
			if _, ok := seen[b.Name]; ok {
				continue
			}
			seen[b.Name] = struct{}{}
			names = append(names, b.Name)
		}
	}
	return names
}

// Snapshot returns a deep copy of the stack, outermost scope first. The
// result shares nothing with the live stack.
func (s *Scopes) Snapshot() [][]Binding {
	out := make([][]Binding, len(s.stack))
	for i, sc := range s.stack {
		frame := make([]Binding, len(sc.bindings))
		for j, b := range sc.bindings {
			frame[j] = Binding{Name: b.Name, Decl: b.Decl, Value: cloneOrNil(b.Value)}
		}
		out[i] = frame
	}
	return out
}

func cloneOrNil(v Value) Value {
	if v == nil {
		return nil
	}
	return Clone(v)
}
