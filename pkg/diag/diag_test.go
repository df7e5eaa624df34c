package diag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/samples"
	"pel/interpreter-go/pkg/source"
)

func render(t *testing.T, err error, color bool) string {
	t.Helper()
	var buf bytes.Buffer
	if werr := Render(&buf, err, color); werr != nil {
		t.Fatalf("Render: %v", werr)
	}
	return buf.String()
}

func TestRenderRuntimeError(t *testing.T) {
	file, err := samples.Load("fizzbuzz")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	stmts, err := parser.ParseProgram(file)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, runErr := interpreter.Run(context.Background(), stmts)
	if runErr == nil {
		t.Fatalf("expected the sample to fail")
	}

	want := strings.Join([]string{
		"error: variable 'x' is uninitialized",
		"  --> fizzbuzz.pel:26:9",
		"   |",
		"26 |         x;",
		"   |         ^",
		"",
	}, "\n")
	if diff := cmp.Diff(want, render(t, runErr, false)); diff != "" {
		t.Fatalf("rendered diagnostic mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSyntaxErrorList(t *testing.T) {
	_, err := parser.ParseProgram(source.NewFile("prog.pel", "print 1; @\nprint 22 +;"))
	if err == nil {
		t.Fatalf("expected syntax errors")
	}
	got := render(t, err, false)
	want := strings.Join([]string{
		"error: bad character '@'",
		" --> prog.pel:1:10",
		"  |",
		"1 | print 1; @",
		"  |          ^",
		"",
	}, "\n")
	if !strings.HasPrefix(got, want) {
		t.Fatalf("unexpected rendering:\n%s", got)
	}
	if strings.Count(got, "error: ") < 2 {
		t.Fatalf("expected every syntax error to be rendered:\n%s", got)
	}
}

func TestRenderUnderlinesWholeSpan(t *testing.T) {
	file := source.NewFile("t.pel", "\tprint abc;")
	err := &parser.SyntaxError{Span: file.Span(7, 10), Message: "bad"}
	got := render(t, err, false)
	if !strings.Contains(got, "1 | \tprint abc;\n  | \t      ^^^\n") {
		t.Fatalf("carets misplaced:\n%q", got)
	}
}

func TestRenderMultiLineSpanUnderlinesFirstLine(t *testing.T) {
	file := source.NewFile("t.pel", "while x {\n}\n")
	err := &parser.SyntaxError{Span: file.Span(6, 11), Message: "bad"}
	got := render(t, err, false)
	if !strings.Contains(got, "1 | while x {\n  |       ^^^\n") {
		t.Fatalf("unexpected carets:\n%q", got)
	}
}

func TestRenderWrappedAndPlainErrors(t *testing.T) {
	file := source.NewFile("t.pel", "x;")
	wrapped := fmt.Errorf("run: %w", &parser.SyntaxError{Span: file.Span(0, 1), Message: "boom"})
	if got := render(t, wrapped, false); !strings.HasPrefix(got, "error: boom\n --> t.pel:1:1\n") {
		t.Fatalf("wrapped error not unwrapped:\n%s", got)
	}
	if got := render(t, errors.New("plain failure"), false); got != "error: plain failure\n" {
		t.Fatalf("unexpected plain rendering %q", got)
	}
	if got := render(t, nil, false); got != "" {
		t.Fatalf("nil error rendered %q", got)
	}
}

func TestRenderColor(t *testing.T) {
	file := source.NewFile("t.pel", "x;")
	got := render(t, &parser.SyntaxError{Span: file.Span(0, 1), Message: "boom"}, true)
	if !strings.Contains(got, "\x1b[38;2;150;0;0m") {
		t.Fatalf("expected error color in %q", got)
	}
	if !strings.Contains(got, "^\x1b[0m") {
		t.Fatalf("expected colored carets in %q", got)
	}
}
