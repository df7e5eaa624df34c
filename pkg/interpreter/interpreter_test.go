package interpreter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pel/interpreter-go/pkg/runtime"
)

const fizzBuzzTo14 = "FizzBuzz\n1\n2\nFizz\n4\nBuzz\nFizz\n7\n8\nFizz\nBuzz\n11\nFizz\n13\n14\n"

func TestBinaryOperationSuspendsOnce(t *testing.T) {
	s := New(parseSource(t, "2 + 3;"))
	defer s.Close()

	if s.State() != NotStarted {
		t.Fatalf("expected NotStarted, got %s", s.State())
	}
	out := s.Step()
	if out.State != Suspended {
		t.Fatalf("expected suspension, got %+v", out)
	}
	rec := out.Record
	if rec.Message != "evaluate operation '+'" {
		t.Fatalf("unexpected message %q", rec.Message)
	}
	if rec.Primary.Text() != "+" {
		t.Fatalf("primary highlight covers %q", rec.Primary.Text())
	}
	if len(rec.Substitutions) != 2 {
		t.Fatalf("expected 2 substitutions, got %d", len(rec.Substitutions))
	}
	for i, want := range []string{"2", "3"} {
		sub := rec.Substitutions[i]
		if sub.Text != want || sub.Span.Text() != want {
			t.Fatalf("substitution %d = %q over %q, want %q", i, sub.Text, sub.Span.Text(), want)
		}
		if rec.Secondary[i].Span.Text() != want || rec.Secondary[i].Color != SecondaryColor {
			t.Fatalf("secondary highlight %d = %+v", i, rec.Secondary[i])
		}
	}
	if len(rec.Snapshot.Scopes) != 1 || len(rec.Snapshot.Scopes[0].Bindings) != 0 {
		t.Fatalf("expected one empty scope, got %+v", rec.Snapshot.Scopes)
	}

	done := s.Step()
	if done.State != Finished || done.Err != nil {
		t.Fatalf("expected successful finish, got %+v", done)
	}
	if again := s.Step(); again != done {
		t.Fatalf("terminal outcome changed: %+v vs %+v", again, done)
	}
	if s.Steps() != 1 {
		t.Fatalf("expected 1 step, got %d", s.Steps())
	}
}

func TestSuspensionOrder(t *testing.T) {
	s := New(parseSource(t, "var x = 1;\nmake var y;\ny = x + 2;\nprint y;\nif y == 3 { print \"ok\"; }"))
	defer s.Close()

	records, out := stepAll(t, s, 100)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	want := []string{
		"make variable 'x' with initializer 1",
		"make uninitialized variable 'y'",
		"read variable 'x'",
		"evaluate operation '+'",
		"assign variable 'y' with value 3",
		"read variable 'y'",
		"print value '3'",
		"read variable 'y'",
		"evaluate operation '=='",
		"check condition",
		"print value 'ok'",
	}
	if diff := cmp.Diff(want, messages(records)); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	check := records[9]
	if check.Primary.Text() != "if" || check.Substitutions[0].Text != "true" || check.Substitutions[0].Span.Text() != "y == 3" {
		t.Fatalf("unexpected condition record: %+v", check)
	}
	if s.Output() != "3\nok\n" {
		t.Fatalf("unexpected output %q", s.Output())
	}
}

func TestAnnounceBeforeCommit(t *testing.T) {
	s := New(parseSource(t, "var n = 1;\nn = 2;\nprint n;"))
	defer s.Close()

	records, _ := stepAll(t, s, 10)
	decl, assign, printRec := records[0], records[1], records[3]

	if _, ok := decl.Snapshot.Lookup("n"); ok {
		t.Fatalf("declaration visible before it was committed")
	}
	if got := lookupRepr(assign, "n"); got != "1" {
		t.Fatalf("assignment record shows n = %s, want the old value 1", got)
	}
	if printRec.Snapshot.Output != "" {
		t.Fatalf("print record already contains output %q", printRec.Snapshot.Output)
	}
	if s.Output() != "2\n" {
		t.Fatalf("unexpected final output %q", s.Output())
	}
}

func TestFizzBuzzScenario(t *testing.T) {
	s := New(parseSample(t, "fizzbuzz"))
	defer s.Close()

	records, out := stepAll(t, s, 10000)

	var printed []string
	for _, rec := range records {
		if strings.HasPrefix(rec.Message, "print value") {
			printed = append(printed, rec.Snapshot.Output)
		}
	}
	// iter 15 still prints before reaching the faulty read
	if len(printed) != 16 {
		t.Fatalf("expected 16 print records, got %d", len(printed))
	}
	lines := strings.SplitAfter(fizzBuzzTo14, "\n")
	for i, output := range printed {
		if want := strings.Join(lines[:i], ""); output != want {
			t.Fatalf("print record %d output = %q, want %q", i, output, want)
		}
	}
	if s.Output() != fizzBuzzTo14+"FizzBuzz\n" {
		t.Fatalf("final output = %q", s.Output())
	}

	rerr := runtimeError(t, out.Err)
	if rerr.Kind != VarUninitialized || rerr.Name != "x" {
		t.Fatalf("unexpected error %+v", rerr)
	}
	if rerr.Span.Text() != "x" || rerr.Span.String() != "fizzbuzz.pel:26:9-10" {
		t.Fatalf("error span %s covers %q", rerr.Span, rerr.Span.Text())
	}
	if last := records[len(records)-1]; last.Message != "read variable 'x'" || !last.Primary.Equal(rerr.Span) {
		t.Fatalf("last record before the error: %+v", last)
	}

	steps := s.Steps()
	for range 3 {
		again := s.Step()
		if again.State != Finished || again.Err != out.Err {
			t.Fatalf("terminal state not idempotent: %+v", again)
		}
	}
	if s.Steps() != steps {
		t.Fatalf("records produced after finishing")
	}
	if depth := s.co.interp.scopes.Depth(); depth != 0 {
		t.Fatalf("scopes left open after error: %d", depth)
	}
}

func TestDeterministicTraces(t *testing.T) {
	stmts := parseSample(t, "fizzbuzz")
	first, out1 := stepAll(t, New(stmts), 10000)
	second, out2 := stepAll(t, New(stmts), 10000)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("traces differ (-first +second):\n%s", diff)
	}
	if out1.Err.Error() != out2.Err.Error() {
		t.Fatalf("outcomes differ: %v vs %v", out1.Err, out2.Err)
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	stmts := parseSample(t, "scopes")
	reference, _ := stepAll(t, New(stmts), 1000)

	s := New(stmts)
	defer s.Close()
	var held []TraceRecord
	var heldPtrs []*TraceRecord
	for {
		out := s.Step()
		if out.State == Finished {
			break
		}
		held = append(held, *out.Record)
		heldPtrs = append(heldPtrs, out.Record)
	}
	for i, ptr := range heldPtrs {
		if diff := cmp.Diff(reference[i], *ptr); diff != "" {
			t.Fatalf("record %d changed after further stepping (-want +got):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(reference, held); diff != "" {
		t.Fatalf("held records differ (-want +got):\n%s", diff)
	}
}

func TestScopingAndShadowing(t *testing.T) {
	s := New(parseSample(t, "scopes"))
	defer s.Close()

	records, out := stepAll(t, s, 1000)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if want := "inner\ninnermost\n1\n2\n-1\n"; s.Output() != want {
		t.Fatalf("output = %q, want %q", s.Output(), want)
	}

	var sawInner bool
	for _, rec := range records {
		if rec.Message != "print value 'innermost'" {
			continue
		}
		sawInner = true
		if len(rec.Snapshot.Scopes) != 3 {
			t.Fatalf("expected 3 scopes at innermost print, got %d", len(rec.Snapshot.Scopes))
		}
		if got := lookupRepr(rec, "a"); got != `"inner"` {
			t.Fatalf("a resolves to %s inside the block", got)
		}
		outer := rec.Snapshot.Scopes[0].Bindings[0]
		if outer.Name != "a" || runtime.Repr(outer.Value) != "1" {
			t.Fatalf("outer a changed: %+v", outer)
		}
	}
	if !sawInner {
		t.Fatalf("no innermost print record")
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	s := New(parseSource(t, "var t = true;\nvar f = false;\nprint t || missing;\nprint f && missing;"))
	defer s.Close()

	records, out := stepAll(t, s, 100)
	if out.Err != nil {
		t.Fatalf("right operand was evaluated: %v", out.Err)
	}
	for _, msg := range messages(records) {
		if strings.Contains(msg, "missing") {
			t.Fatalf("unexpected suspension %q", msg)
		}
	}
	if s.Output() != "true\nfalse\n" {
		t.Fatalf("unexpected output %q", s.Output())
	}
}

func TestUninitializedRead(t *testing.T) {
	s := New(parseSource(t, "{\n  var x;\n  print x;\n}"))
	defer s.Close()

	_, out := stepAll(t, s, 10)
	rerr := runtimeError(t, out.Err)
	if rerr.Kind != VarUninitialized || rerr.Span.Text() != "x" || rerr.Span.String() != "test.pel:3:9-10" {
		t.Fatalf("unexpected error %+v at %s", rerr, rerr.Span)
	}
	if rerr.Error() != "variable 'x' is uninitialized" {
		t.Fatalf("unexpected message %q", rerr.Error())
	}
	if depth := s.co.interp.scopes.Depth(); depth != 0 {
		t.Fatalf("scopes left open: %d", depth)
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		kind     ErrorKind
		spanText string
		message  string
	}{
		{"mixed add", `print 1 + "a";`, InvalidTypesForBinaryOp, "+", "invalid operand types for '+': int and string"},
		{"string minus", `print "a" - "b";`, InvalidTypesForBinaryOp, "-", "invalid operand types for '-': string and string"},
		{"int float compare", `print 1 < 2.0;`, InvalidTypesForBinaryOp, "<", "invalid operand types for '<': int and float"},
		{"negate bool", `print -true;`, InvalidTypeForUnaryOp, "-", "invalid operand type for '-': bool"},
		{"not int", `print !1;`, InvalidTypeForUnaryOp, "!", "invalid operand type for '!': int"},
		{"short circuit left", `print 1 || true;`, InvalidTypeForShortCircuitOp, "1", "operator '||' requires bool operands, got int"},
		{"short circuit right", `print true && "s";`, InvalidTypeForShortCircuitOp, `"s"`, "operator '&&' requires bool operands, got string"},
		{"if condition", `if 1 { }`, ExpectedBool, "1", "expected bool condition, got int"},
		{"while condition", `while "x" { }`, ExpectedBool, `"x"`, "expected bool condition, got string"},
		{"int division", `print 1 / 0;`, DivisionByZero, "/", "division by zero in '/'"},
		{"int modulo", `print 1 % 0;`, DivisionByZero, "%", "division by zero in '%'"},
		{"float division", `print 1.5 / 0.0;`, DivisionByZero, "/", "division by zero in '/'"},
		{"call", `f(1);`, UnsupportedExpression, "f(1)", "function calls are not supported"},
		{"assign undeclared", `y = 1;`, VarDoesNotExist, "y", "variable 'y' does not exist"},
		{"read undeclared", `print nope;`, VarDoesNotExist, "nope", "variable 'nope' does not exist"},
		{"suggestion", "var iter = 1;\nprint itr;", VarDoesNotExist, "itr", "variable 'itr' does not exist; did you mean 'iter'?"},
		{"typo suggestion", "var total = 1;\ntotla = 2;", VarDoesNotExist, "totla", "variable 'totla' does not exist; did you mean 'total'?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(parseSource(t, tc.src))
			defer s.Close()
			_, out := stepAll(t, s, 100)
			rerr := runtimeError(t, out.Err)
			if rerr.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s", rerr.Kind, tc.kind)
			}
			if rerr.Span.Text() != tc.spanText {
				t.Fatalf("span covers %q, want %q", rerr.Span.Text(), tc.spanText)
			}
			if rerr.Error() != tc.message {
				t.Fatalf("message = %q, want %q", rerr.Error(), tc.message)
			}
		})
	}
}

func TestDivisionByZeroIsAnnouncedFirst(t *testing.T) {
	s := New(parseSource(t, "print 4 / 0;"))
	defer s.Close()

	records, out := stepAll(t, s, 10)
	if len(records) != 1 || records[0].Message != "evaluate operation '/'" {
		t.Fatalf("expected the division to be announced, got %v", messages(records))
	}
	if runtimeError(t, out.Err).Kind != DivisionByZero {
		t.Fatalf("unexpected error %v", out.Err)
	}
}

func TestArithmetic(t *testing.T) {
	src := `print -7 / 2;
print -7 % 2;
print 7.5 / 2.5;
print 0.1 + 0.2;
print 5.5 % 2.0;
print 123456789012345678901234567890 * 10;
print "Fizz" + "Buzz";
print "a" < "b";
print true > false;
print 2 >= 2 == (1 != 2);
`
	res, err := Run(context.Background(), parseSource(t, src))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "-3\n-1\n3\n0.30000000000000004\n1.5\n1234567890123456789012345678900\nFizzBuzz\ntrue\ntrue\ntrue\n"
	if res.Output != want {
		t.Fatalf("output = %q, want %q", res.Output, want)
	}
}

func TestRunReportsSteps(t *testing.T) {
	res, err := Run(context.Background(), parseSource(t, "var a = 1;\nprint a;"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Steps != 3 || res.Output != "1\n" {
		t.Fatalf("unexpected result %+v", res)
	}

	res, err = Run(context.Background(), parseSample(t, "fizzbuzz"))
	if runtimeError(t, err).Kind != VarUninitialized || !strings.HasPrefix(res.Output, fizzBuzzTo14) {
		t.Fatalf("unexpected fizzbuzz result %+v, %v", res, err)
	}
}

func TestRunStepLimit(t *testing.T) {
	_, err := Run(context.Background(), parseSource(t, "while true { }"), WithMaxSteps(10))
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
}

func TestEmptyProgramFinishesImmediately(t *testing.T) {
	s := New(nil)
	defer s.Close()
	out := s.Step()
	if out.State != Finished || out.Err != nil || out.Record != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
}
