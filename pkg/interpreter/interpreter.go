package interpreter

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/runtime"
)

// ErrStepLimit is returned by Run when a program exceeds its step budget.
var ErrStepLimit = errors.New("step limit exceeded")

// Interpreter evaluates statements against a scope stack, announcing every
// observable operation through suspend before committing it.
type Interpreter struct {
	scopes  *runtime.Scopes
	output  strings.Builder
	logger  zerolog.Logger
	steps   int
	suspend func(TraceRecord) error
}

type config struct {
	logger   zerolog.Logger
	ctx      context.Context
	maxSteps int
}

// Option configures a Stepper.
type Option func(*config)

// WithLogger routes suspension and outcome logging to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithContext ties the evaluation goroutine to ctx; cancelling it finishes
// the stepper.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithMaxSteps bounds the number of suspensions Run will step through.
// Zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

func newConfig(opts []Option) config {
	cfg := config{logger: zerolog.Nop(), ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func newInterpreter(logger zerolog.Logger, suspend func(TraceRecord) error) *Interpreter {
	return &Interpreter{scopes: runtime.NewScopes(), logger: logger, suspend: suspend}
}

// announce freezes the current state into rec and hands it to the driver.
// A non-nil error means the driver is gone and evaluation must unwind.
func (i *Interpreter) announce(rec TraceRecord) error {
	rec.Snapshot = i.snapshot()
	i.steps++
	i.logger.Trace().
		Int("step", i.steps).
		Stringer("span", rec.Primary).
		Int("depth", i.scopes.Depth()).
		Msg(rec.Message)
	return i.suspend(rec)
}

// EvaluateProgram runs top-level statements as one implicit block.
func (i *Interpreter) EvaluateProgram(stmts []ast.Statement) error {
	return i.evaluateStatements(stmts)
}

// Output returns everything printed so far.
func (i *Interpreter) Output() string {
	return i.output.String()
}

// Result summarizes a program run to completion.
type Result struct {
	Output string
	Steps  int
}

// Run steps a program until it finishes and returns its output. Runtime
// errors come back as *RuntimeError alongside the partial result.
func Run(ctx context.Context, stmts []ast.Statement, opts ...Option) (Result, error) {
	cfg := newConfig(opts)
	s := New(stmts, append(opts, WithContext(ctx))...)
	defer s.Close()

	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out := s.Step()
		switch out.State {
		case Suspended:
			res.Steps++
			res.Output = out.Record.Snapshot.Output
			if cfg.maxSteps > 0 && res.Steps > cfg.maxSteps {
				return res, ErrStepLimit
			}
		case Finished:
			res.Output = s.Output()
			return res, out.Err
		}
	}
}
