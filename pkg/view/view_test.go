package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/source"
)

// records steps src to completion and returns every record.
func records(t *testing.T, src string) []interpreter.TraceRecord {
	t.Helper()
	stmts, err := parser.ParseProgram(source.NewFile("view.pel", src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := interpreter.New(stmts)
	defer s.Close()
	var out []interpreter.TraceRecord
	for range 100 {
		res := s.Step()
		if res.State == interpreter.Finished {
			return out
		}
		out = append(out, *res.Record)
	}
	t.Fatalf("program did not finish")
	return nil
}

func renderPlain(t *testing.T, rec interpreter.TraceRecord, index int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, rec, Options{Index: index}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestRenderBinaryOperation(t *testing.T) {
	recs := records(t, "var a = 2;\nvar b;\n{ print a * 3; }")
	// make a, make b, read a, '*', print
	mul := recs[3]
	want := strings.Join([]string{
		"step 4: evaluate operation '*'",
		"  --> view.pel:3:11-12",
		"3 | { print a [*] 3; }",
		"  = 2 * 3",
		"scopes:",
		"  #0  a: int = 2",
		"      b: <uninitialized>",
		"  #1 (empty)",
		"output: (none)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, renderPlain(t, mul, 4)); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMultiLinePrimaryAndOutput(t *testing.T) {
	recs := records(t, "print \"a\";\nif 1 <\n  2 {\n  print \"b\";\n}")
	var cond interpreter.TraceRecord
	for _, rec := range recs {
		if rec.Message == "check condition" {
			cond = rec
		}
	}
	got := renderPlain(t, cond, 0)
	for _, want := range []string{
		"check condition\n",
		"2 | [if] 1 <\n",
		"  = if true\n",
		"output:\n  | a\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestSubstituteStatement(t *testing.T) {
	recs := records(t, "var total = 4;\ntotal = total - 1;")
	assign := recs[len(recs)-1]
	if got := Substitute(assign); got != "total = 3;" {
		t.Fatalf("Substitute = %q", got)
	}
	if got := Substitute(interpreter.TraceRecord{}); got != "" {
		t.Fatalf("Substitute of an empty record = %q", got)
	}
}

func TestRenderColor(t *testing.T) {
	recs := records(t, "print 1 + 2;")
	var buf bytes.Buffer
	if err := Render(&buf, recs[0], Options{Color: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := buf.String()
	primaryBg := "\x1b[48;2;50;100;50m"
	secondaryBg := "\x1b[48;2;50;50;150m"
	if !strings.Contains(got, secondaryBg+"1\x1b[0m "+primaryBg+"+\x1b[0m "+secondaryBg+"2\x1b[0m") {
		t.Fatalf("unexpected highlighting: %q", got)
	}
	if strings.Contains(got, "[+]") {
		t.Fatalf("color mode should not bracket: %q", got)
	}
}

func TestRenderScopesAndOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderScopes(&buf, interpreter.Snapshot{}); err != nil {
		t.Fatalf("RenderScopes: %v", err)
	}
	if err := RenderOutput(&buf, "x\ny\n"); err != nil {
		t.Fatalf("RenderOutput: %v", err)
	}
	if got, want := buf.String(), "scopes:\n  (none)\noutput:\n  | x\n  | y\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderOutcome(t *testing.T) {
	cases := []struct {
		out  interpreter.StepOutcome
		want string
	}{
		{interpreter.StepOutcome{State: interpreter.Finished}, "interpreter finished successfully\n"},
		{interpreter.StepOutcome{State: interpreter.Finished, Err: errors.New("boom")}, "interpreter had error: boom\n"},
		{interpreter.StepOutcome{State: interpreter.Suspended}, "interpreter is suspended\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := RenderOutcome(&buf, tc.out, false); err != nil {
			t.Fatalf("RenderOutcome: %v", err)
		}
		if buf.String() != tc.want {
			t.Fatalf("RenderOutcome = %q, want %q", buf.String(), tc.want)
		}
	}
}
