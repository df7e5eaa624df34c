package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"pel/interpreter-go/pkg/driver"
	"pel/interpreter-go/pkg/interpreter"
)

type runOptions struct {
	sample   string
	maxSteps int
	watch    bool
}

func (o *runOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.sample, "sample", "", "run an embedded sample program instead of a file")
	flags.IntVar(&o.maxSteps, "max-steps", -1, "stop after this many steps (0 = unlimited, default from pel.yml)")
	flags.BoolVar(&o.watch, "watch", false, "re-run whenever the program file changes")
}

func (a *app) runCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program to completion and print its output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd.Context(), args, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) runCommand(ctx context.Context, args []string, opts runOptions) error {
	maxSteps := a.cfg.Run.MaxSteps
	if opts.maxSteps >= 0 {
		maxSteps = opts.maxSteps
	}
	prog, err := driver.ResolveEntry(a.cfg, args, opts.sample)
	if opts.watch && prog != nil && prog.Path != "" {
		// watch reports syntax errors itself and keeps going
		return a.watch(ctx, prog.Path, maxSteps)
	}
	if err != nil {
		return err
	}
	if opts.watch {
		return fmt.Errorf("--watch needs a program file")
	}
	return a.execute(ctx, prog, maxSteps)
}

// execute steps prog to completion, writing its output and any diagnostic.
func (a *app) execute(ctx context.Context, prog *driver.Program, maxSteps int) error {
	res, err := interpreter.Run(ctx, prog.Statements,
		interpreter.WithLogger(a.logger),
		interpreter.WithMaxSteps(maxSteps),
	)
	if _, werr := io.WriteString(a.stdout, res.Output); werr != nil {
		return werr
	}
	a.logger.Debug().Int("steps", res.Steps).Str("program", prog.File.Name()).Msg("run complete")
	switch {
	case err == nil:
		return nil
	case errors.Is(err, interpreter.ErrStepLimit):
		return fmt.Errorf("%w after %d steps", err, maxSteps)
	default:
		return a.report(err)
	}
}

// watch runs path once and again after every change until ctx is done.
// Failures of individual runs are reported but do not stop watching.
func (a *app) watch(ctx context.Context, path string, maxSteps int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	// editors often replace files, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	rerun := func() {
		prog, err := driver.LoadProgram(abs)
		if err != nil {
			_ = a.report(err)
			return
		}
		if err := a.execute(ctx, prog, maxSteps); err != nil && !errors.Is(err, errReported) {
			_ = a.report(err)
		}
	}
	rerun()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.logger.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("change detected")
			debounce = time.After(50 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn().Err(err).Msg("watch error")
		case <-debounce:
			debounce = nil
			fmt.Fprintf(a.stderr, "--- %s changed, re-running\n", filepath.Base(abs))
			rerun()
		}
	}
}
