package interpreter

import (
	"context"
	"errors"
	"fmt"
	goruntime "runtime"
	"sync"

	"github.com/rs/zerolog"

	"pel/interpreter-go/pkg/ast"
)

// ErrClosed is the terminal error of a stepper closed before it finished.
var ErrClosed = errors.New("interpreter: stepper closed")

// State is the lifecycle position of a Stepper.
type State int

const (
	NotStarted State = iota
	Suspended
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Suspended:
		return "suspended"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StepOutcome is the result of one Step call. Record is set only when
// suspended; Err is set only when finished unsuccessfully.
type StepOutcome struct {
	State  State
	Record *TraceRecord
	Err    error
}

// Stepper runs a program one suspension at a time. The evaluator lives on
// its own goroutine and only runs between a Step call and the next
// suspension, so exactly one side is active at any moment.
//
// A Stepper is not safe for concurrent Step calls from several goroutines,
// though Close may be called from any goroutine.
type Stepper struct {
	co *coroutine
}

// coroutine holds everything the evaluation goroutine touches. It never
// references the outer Stepper, so an abandoned Stepper can be collected and
// its cleanup can stop the goroutine.
type coroutine struct {
	mu     sync.Mutex
	interp *Interpreter
	stmts  []ast.Statement
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	yields chan TraceRecord
	resume chan struct{}
	done   chan error
	exited chan struct{}

	state  State
	final  StepOutcome
	steps  int
	output string
}

// New prepares a stepper for stmts. Nothing is evaluated until the first
// Step.
func New(stmts []ast.Statement, opts ...Option) *Stepper {
	cfg := newConfig(opts)
	ctx, cancel := context.WithCancel(cfg.ctx)
	co := &coroutine{
		stmts:  stmts,
		logger: cfg.logger,
		ctx:    ctx,
		cancel: cancel,
		yields: make(chan TraceRecord),
		resume: make(chan struct{}),
		done:   make(chan error, 1),
		exited: make(chan struct{}),
	}
	co.interp = newInterpreter(cfg.logger, co.yield)
	s := &Stepper{co: co}
	goruntime.AddCleanup(s, func(co *coroutine) { co.close() }, co)
	return s
}

// Step resumes evaluation until the next suspension or the end of the
// program. Once finished, Step keeps returning the same terminal outcome.
func (s *Stepper) Step() StepOutcome {
	return s.co.step()
}

// State reports where the stepper is in its lifecycle.
func (s *Stepper) State() State {
	s.co.mu.Lock()
	defer s.co.mu.Unlock()
	return s.co.state
}

// Steps counts the suspensions observed so far.
func (s *Stepper) Steps() int {
	s.co.mu.Lock()
	defer s.co.mu.Unlock()
	return s.co.steps
}

// Output returns the program output as of the latest suspension, or the
// complete output once finished.
func (s *Stepper) Output() string {
	s.co.mu.Lock()
	defer s.co.mu.Unlock()
	return s.co.output
}

// Close stops a running evaluation and releases its goroutine. Closing a
// finished stepper is a no-op; Close is idempotent.
func (s *Stepper) Close() {
	s.co.close()
}

func (c *coroutine) step() StepOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Finished:
		return c.final
	case NotStarted:
		go c.run()
	case Suspended:
		select {
		case c.resume <- struct{}{}:
		case <-c.exited:
		}
	}

	select {
	case rec := <-c.yields:
		c.state = Suspended
		c.steps++
		c.output = rec.Snapshot.Output
		return StepOutcome{State: Suspended, Record: &rec}
	case err := <-c.done:
		return c.finish(err)
	}
}

func (c *coroutine) run() {
	defer close(c.exited)
	c.done <- c.safeEvaluate()
}

func (c *coroutine) safeEvaluate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreter: panic: %v", r)
		}
	}()
	return c.interp.EvaluateProgram(c.stmts)
}

// yield is the evaluator side of the rendezvous: publish rec, then wait to
// be resumed.
func (c *coroutine) yield(rec TraceRecord) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	select {
	case c.yields <- rec:
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
	select {
	case <-c.resume:
		// a resume racing with cancellation must not run another operation
		return c.ctx.Err()
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// finish records the terminal outcome. The evaluation goroutine has exited
// or is about to, so the interpreter state is no longer changing.
func (c *coroutine) finish(err error) StepOutcome {
	if err != nil && c.ctx.Err() != nil && errors.Is(err, c.ctx.Err()) {
		err = fmt.Errorf("interpreter: evaluation stopped: %w", err)
	}
	c.state = Finished
	c.final = StepOutcome{State: Finished, Err: err}
	c.output = c.interp.Output()
	c.cancel()

	ev := c.logger.Debug().Int("steps", c.steps)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("interpreter finished")
	return c.final
}

func (c *coroutine) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Finished:
		return
	case Suspended:
		c.cancel()
		<-c.exited
		<-c.done
	}
	c.cancel()
	c.state = Finished
	c.final = StepOutcome{State: Finished, Err: ErrClosed}
	c.logger.Debug().Int("steps", c.steps).Msg("interpreter closed")
}
