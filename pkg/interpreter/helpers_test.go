package interpreter

import (
	"testing"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/samples"
	"pel/interpreter-go/pkg/source"
)

func parseSource(t *testing.T, src string) []ast.Statement {
	t.Helper()
	stmts, err := parser.ParseProgram(source.NewFile("test.pel", src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return stmts
}

func parseSample(t *testing.T, name string) []ast.Statement {
	t.Helper()
	file, err := samples.Load(name)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	stmts, err := parser.ParseProgram(file)
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return stmts
}

// stepAll drives a stepper to completion, failing the test if it does not
// finish within limit suspensions.
func stepAll(t *testing.T, s *Stepper, limit int) ([]TraceRecord, StepOutcome) {
	t.Helper()
	var records []TraceRecord
	for n := 0; n <= limit; n++ {
		out := s.Step()
		switch out.State {
		case Suspended:
			if out.Record == nil {
				t.Fatalf("suspended outcome without a record")
			}
			records = append(records, *out.Record)
		case Finished:
			return records, out
		default:
			t.Fatalf("unexpected state %s", out.State)
		}
	}
	t.Fatalf("program did not finish within %d steps", limit)
	return nil, StepOutcome{}
}

func messages(records []TraceRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Message
	}
	return out
}

func runtimeError(t *testing.T, err error) *RuntimeError {
	t.Helper()
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	return rerr
}

// lookupRepr renders the binding for name visible in a record's snapshot.
func lookupRepr(rec TraceRecord, name string) string {
	b, ok := rec.Snapshot.Lookup(name)
	if !ok {
		return "<missing>"
	}
	return runtime.Repr(b.Value)
}
