package tracefmt

import (
	"context"
	"errors"
	"slices"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/source"
)

// Options tune Collect.
type Options struct {
	// Revision is stored verbatim, typically the commit of the program's
	// repository.
	Revision string
	// MaxSteps stops collection after that many records. Zero means
	// unlimited.
	MaxSteps int
	// Interpreter options are passed to the stepper.
	Interpreter []interpreter.Option
}

// Collect steps stmts to completion and returns the whole session. A runtime
// error is part of the trace, not a failure of Collect; cancellation and the
// step limit are returned as errors together with the partial trace.
func Collect(ctx context.Context, file *source.File, stmts []ast.Statement, opts Options) (*Trace, error) {
	t := &Trace{Version: Version, Program: file.Name(), Revision: opts.Revision, Records: []Record{}}
	s := interpreter.New(stmts, slices.Concat(opts.Interpreter, []interpreter.Option{interpreter.WithContext(ctx)})...)
	defer s.Close()

	for {
		out := s.Step()
		if out.State == interpreter.Finished {
			t.Outcome = FromOutcome(out, s.Steps(), s.Output())
			var rerr *interpreter.RuntimeError
			if out.Err != nil && !errors.As(out.Err, &rerr) {
				return t, out.Err
			}
			return t, nil
		}
		if opts.MaxSteps > 0 && len(t.Records) >= opts.MaxSteps {
			t.Outcome = Outcome{Error: interpreter.ErrStepLimit.Error(), Steps: len(t.Records), Output: s.Output()}
			return t, interpreter.ErrStepLimit
		}
		t.Records = append(t.Records, FromRecord(len(t.Records), *out.Record))
	}
}
