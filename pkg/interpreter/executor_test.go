package interpreter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCloseStopsSuspendedEvaluation(t *testing.T) {
	s := New(parseSource(t, "var i = 0;\nwhile true {\n  { i = i + 1; }\n}"))
	for range 7 {
		if out := s.Step(); out.State != Suspended {
			t.Fatalf("expected suspension, got %+v", out)
		}
	}
	s.Close()

	out := s.Step()
	if out.State != Finished || !errors.Is(out.Err, ErrClosed) {
		t.Fatalf("expected closed outcome, got %+v", out)
	}
	if depth := s.co.interp.scopes.Depth(); depth != 0 {
		t.Fatalf("evaluation goroutine left %d scopes open", depth)
	}
	select {
	case <-s.co.exited:
	default:
		t.Fatalf("evaluation goroutine still running after Close")
	}
	s.Close()
	if again := s.Step(); again != out {
		t.Fatalf("second Close changed the outcome: %+v", again)
	}
}

func TestCloseBeforeStart(t *testing.T) {
	s := New(parseSource(t, "print 1;"))
	s.Close()
	if out := s.Step(); out.State != Finished || !errors.Is(out.Err, ErrClosed) {
		t.Fatalf("expected closed outcome, got %+v", out)
	}
	if s.State() != Finished {
		t.Fatalf("expected Finished, got %s", s.State())
	}
}

func TestCloseAfterFinishKeepsOutcome(t *testing.T) {
	s := New(parseSource(t, "print 1;"))
	_, out := stepAll(t, s, 10)
	s.Close()
	if again := s.Step(); again != out || again.Err != nil {
		t.Fatalf("Close rewrote a finished outcome: %+v", again)
	}
}

func TestContextCancellationFinishesStepper(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(parseSource(t, "while true { }"), WithContext(ctx))
	defer s.Close()

	if out := s.Step(); out.State != Suspended {
		t.Fatalf("expected suspension, got %+v", out)
	}
	cancel()
	out := s.Step()
	if out.State != Finished || !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("expected cancellation outcome, got %+v", out)
	}
	if !strings.Contains(out.Err.Error(), "evaluation stopped") {
		t.Fatalf("unexpected error text %q", out.Err)
	}
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, parseSource(t, "while true { }"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoggerSeesSuspensionsAndOutcome(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	if _, err := Run(context.Background(), parseSource(t, "print 1 + 1;"), WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	logs := buf.String()
	for _, want := range []string{
		`"message":"evaluate operation '+'"`,
		`"message":"print value '2'"`,
		`"span":"test.pel:1:1-13"`,
		`"message":"interpreter finished"`,
		`"steps":2`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("log output missing %s:\n%s", want, logs)
		}
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{NotStarted: "not started", Suspended: "suspended", Finished: "finished"} {
		if state.String() != want {
			t.Fatalf("%d.String() = %q, want %q", int(state), state.String(), want)
		}
	}
}
