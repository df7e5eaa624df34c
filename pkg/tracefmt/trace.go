// Package tracefmt exports stepping traces as JSON or canonical CBOR.
//
// A Trace is a plain-data copy of every record a program produced, detached
// from source files and runtime values so it can be stored, diffed and
// fingerprinted.
package tracefmt

import (
	"errors"
	"fmt"

	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/source"
)

// Version is the trace format version written by this package.
const Version = 1

// Location is a resolved source span.
type Location struct {
	File      string `json:"file"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
}

// Highlight is a secondary region with its color as "#rrggbb".
type Highlight struct {
	Location Location `json:"location"`
	Color    string   `json:"color"`
}

type Substitution struct {
	Location Location `json:"location"`
	Text     string   `json:"text"`
}

// Binding is one variable in a scope. Type and Value are empty while the
// variable is uninitialized.
type Binding struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Value       string `json:"value,omitempty"`
	Initialized bool   `json:"initialized"`
}

type Scope struct {
	Bindings []Binding `json:"bindings"`
}

// Record is the exported form of one suspension.
type Record struct {
	Index         int            `json:"index"`
	Message       string         `json:"message"`
	Primary       Location       `json:"primary"`
	Secondary     []Highlight    `json:"secondary,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
	Scopes        []Scope        `json:"scopes"`
	Output        string         `json:"output"`
}

// Outcome is how the program ended. Error and Location are set only for a
// runtime error.
type Outcome struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Location *Location `json:"location,omitempty"`
	Steps    int       `json:"steps"`
	Output   string    `json:"output"`
}

// Trace is a complete stepping session.
type Trace struct {
	Version  int      `json:"version"`
	Program  string   `json:"program"`
	Revision string   `json:"revision,omitempty"`
	Records  []Record `json:"records"`
	Outcome  Outcome  `json:"outcome"`
}

// FromSpan resolves a span into line and column coordinates.
func FromSpan(span source.Span) Location {
	if span.IsZero() {
		return Location{}
	}
	line, col := span.File.LineCol(span.Start)
	endLine, endCol := span.File.LineCol(span.End)
	return Location{
		File:      span.File.Name(),
		Start:     span.Start,
		End:       span.End,
		Line:      line,
		Column:    col,
		EndLine:   endLine,
		EndColumn: endCol,
	}
}

// FromRecord converts the index-th record of a session.
func FromRecord(index int, rec interpreter.TraceRecord) Record {
	out := Record{
		Index:   index,
		Message: rec.Message,
		Primary: FromSpan(rec.Primary),
		Scopes:  make([]Scope, len(rec.Snapshot.Scopes)),
		Output:  rec.Snapshot.Output,
	}
	for _, h := range rec.Secondary {
		out.Secondary = append(out.Secondary, Highlight{Location: FromSpan(h.Span), Color: hexColor(h.Color)})
	}
	for _, sub := range rec.Substitutions {
		out.Substitutions = append(out.Substitutions, Substitution{Location: FromSpan(sub.Span), Text: sub.Text})
	}
	for i, scope := range rec.Snapshot.Scopes {
		bindings := make([]Binding, len(scope.Bindings))
		for j := range scope.Bindings {
			bindings[j] = fromBinding(&scope.Bindings[j])
		}
		out.Scopes[i] = Scope{Bindings: bindings}
	}
	return out
}

func fromBinding(b *runtime.Binding) Binding {
	if !b.Initialized() {
		return Binding{Name: b.Name}
	}
	return Binding{
		Name:        b.Name,
		Type:        b.Value.Kind().String(),
		Value:       runtime.Repr(b.Value),
		Initialized: true,
	}
}

// FromOutcome converts a finished step outcome. steps and output describe the
// whole session.
func FromOutcome(out interpreter.StepOutcome, steps int, output string) Outcome {
	res := Outcome{Success: out.Err == nil, Steps: steps, Output: output}
	if out.Err == nil {
		return res
	}
	res.Error = out.Err.Error()
	var rerr *interpreter.RuntimeError
	if errors.As(out.Err, &rerr) {
		loc := FromSpan(rerr.Span)
		res.Kind = rerr.Kind.String()
		res.Location = &loc
	}
	return res
}

func hexColor(c interpreter.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
