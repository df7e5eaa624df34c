package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/source"
)

type checkResult struct {
	path       string
	statements int
	err        error
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check file...",
		Short: "Parse programs and report syntax errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]checkResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					file, err := source.Load(path)
					if err != nil {
						return err
					}
					stmts, err := parser.ParseProgram(file)
					results[i] = checkResult{path: path, statements: len(stmts), err: err}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if res.err != nil {
					failed++
					_ = a.report(res.err)
					continue
				}
				fmt.Fprintf(a.stdout, "%s: ok (%d statements)\n", res.path, res.statements)
			}
			a.logger.Debug().Int("files", len(results)).Int("failed", failed).Msg("check complete")
			if failed > 0 {
				fmt.Fprintf(a.stderr, "%d of %d files failed to parse\n", failed, len(results))
				return errReported
			}
			return nil
		},
	}
}
