package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pel/interpreter-go/pkg/driver"
	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/tracefmt"
)

type traceOptions struct {
	sample   string
	format   string
	out      string
	digest   bool
	maxSteps int
}

func (a *app) traceCmd() *cobra.Command {
	var opts traceOptions
	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Run a program and export every trace record",
		Long: "Run a program and export every trace record as JSON or canonical CBOR.\n" +
			"With --digest only the trace fingerprint is printed, unless --out is also given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := driver.ResolveEntry(a.cfg, args, opts.sample)
			if err != nil {
				return err
			}
			format := a.cfg.Trace.Format
			if opts.format != "" {
				if format, err = tracefmt.ParseFormat(opts.format); err != nil {
					return err
				}
			}
			maxSteps := a.cfg.Run.MaxSteps
			if opts.maxSteps >= 0 {
				maxSteps = opts.maxSteps
			}

			var revision string
			if prog.Path != "" {
				if revision, err = driver.SourceRevision(prog.Path); err != nil {
					a.logger.Warn().Err(err).Str("program", prog.Path).Msg("could not determine source revision")
				}
			}

			trace, err := tracefmt.Collect(cmd.Context(), prog.File, prog.Statements, tracefmt.Options{
				Revision:    revision,
				MaxSteps:    maxSteps,
				Interpreter: []interpreter.Option{interpreter.WithLogger(a.logger)},
			})
			if err != nil {
				return err
			}
			a.logger.Debug().Int("records", len(trace.Records)).Bool("success", trace.Outcome.Success).Msg("trace collected")

			if opts.out != "" {
				if err := writeTraceFile(opts.out, trace, format); err != nil {
					return err
				}
			} else if !opts.digest {
				if err := tracefmt.Encode(a.stdout, trace, format); err != nil {
					return err
				}
			}
			if opts.digest {
				sum, err := tracefmt.Digest(trace)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, sum)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.sample, "sample", "", "trace an embedded sample program instead of a file")
	flags.StringVar(&opts.format, "format", "", "output format: json or cbor (default from pel.yml)")
	flags.StringVarP(&opts.out, "out", "o", "", "write the trace to this file instead of stdout")
	flags.BoolVar(&opts.digest, "digest", false, "print the blake2b digest of the trace")
	flags.IntVar(&opts.maxSteps, "max-steps", -1, "stop after this many records (0 = unlimited, default from pel.yml)")
	return cmd
}

func writeTraceFile(path string, trace *tracefmt.Trace, format tracefmt.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := tracefmt.Encode(w, trace, format); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("trace: write %s: %w", path, err)
	}
	return nil
}
