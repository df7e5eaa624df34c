package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"pel/interpreter-go/pkg/diag"
	"pel/interpreter-go/pkg/driver"
	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/view"
)

const defaultHistoryFile = ".pel_history"

const stepHelp = `commands:
  <enter>   perform the next operation
  :run      run to the end
  :scopes   show the current scopes
  :output   show the output so far
  :help     show this help
  :quit     leave the session`

// prompter is the part of liner.State a stepping session needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func (a *app) stepCmd() *cobra.Command {
	var sample string
	cmd := &cobra.Command{
		Use:   "step [file]",
		Short: "Step through a program interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := driver.ResolveEntry(a.cfg, args, sample)
			if err != nil {
				return err
			}
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			history := a.historyPath()
			if history != "" {
				if f, err := os.Open(history); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(history); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}
			return a.stepSession(cmd.Context(), ln, prog)
		},
	}
	cmd.Flags().StringVar(&sample, "sample", "", "step through an embedded sample program instead of a file")
	return cmd
}

func (a *app) historyPath() string {
	if a.cfg != nil && a.cfg.Step.History != "" {
		return a.cfg.Step.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryFile)
}

// stepSession drives a stepper from prompt input until the user quits or
// input ends.
func (a *app) stepSession(ctx context.Context, p prompter, prog *driver.Program) error {
	s := interpreter.New(prog.Statements, interpreter.WithLogger(a.logger), interpreter.WithContext(ctx))
	defer s.Close()

	fmt.Fprintf(a.stdout, "stepping %s (:help for commands)\n", prog.File.Name())
	var last *interpreter.TraceRecord
	for {
		line, err := p.Prompt(a.promptFor(s))
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(a.stdout)
			return nil
		}
		if err != nil {
			return err
		}
		cmd := strings.TrimSpace(line)
		if cmd != "" {
			p.AppendHistory(cmd)
		}

		switch cmd {
		case "", ":step", ":s":
			last = a.advance(s, last, true)
		case ":run", ":r":
			for s.State() != interpreter.Finished {
				if ctx.Err() != nil {
					break
				}
				last = a.advance(s, last, false)
			}
			if err := view.RenderOutput(a.stdout, s.Output()); err != nil {
				return err
			}
			a.showOutcome(s.Step())
		case ":scopes":
			if last == nil {
				fmt.Fprintln(a.stdout, "no scopes yet")
				continue
			}
			if err := view.RenderScopes(a.stdout, last.Snapshot); err != nil {
				return err
			}
		case ":output", ":o":
			if err := view.RenderOutput(a.stdout, s.Output()); err != nil {
				return err
			}
		case ":help", ":h", ":?":
			fmt.Fprintln(a.stdout, stepHelp)
		case ":quit", ":q":
			return nil
		default:
			fmt.Fprintf(a.stdout, "unknown command %q (try :help)\n", cmd)
		}
	}
}

func (a *app) promptFor(s *interpreter.Stepper) string {
	if s.State() == interpreter.Finished {
		return "(finished) "
	}
	return fmt.Sprintf("[%d] ", s.Steps())
}

// advance performs one step, optionally showing its record or the terminal
// outcome, and returns the latest record.
func (a *app) advance(s *interpreter.Stepper, last *interpreter.TraceRecord, show bool) *interpreter.TraceRecord {
	out := s.Step()
	if out.State == interpreter.Finished {
		if show {
			a.showOutcome(out)
		}
		return last
	}
	if show {
		_ = view.Render(a.stdout, *out.Record, view.Options{Color: a.color, Index: s.Steps()})
	}
	return out.Record
}

func (a *app) showOutcome(out interpreter.StepOutcome) {
	_ = view.RenderOutcome(a.stdout, out, a.color)
	var rerr *interpreter.RuntimeError
	if errors.As(out.Err, &rerr) {
		_ = diag.Render(a.stdout, rerr, a.color)
	}
}
