package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pel/interpreter-go/pkg/diag"
	"pel/interpreter-go/pkg/driver"
)

const cliToolVersion = "pel-cli 0.0.0-dev"

// errReported marks a failure whose diagnostics have already been written.
var errReported = errors.New("failure already reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	colorMode  string

	cfg    *driver.Config
	logger zerolog.Logger
	color  bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, logger: zerolog.Nop()}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		_ = diag.Render(stderr, err, a.color)
		return 1
	}
}

func (a *app) rootCommand() *cobra.Command {
	var runFlags runOptions
	root := &cobra.Command{
		Use:           "pel [file]",
		Short:         "Step through pel programs one operation at a time",
		Version:       cliToolVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd.Context(), args, runFlags)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to pel.yml (default: search upwards from the working directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or disabled")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")
	flags.StringVar(&a.colorMode, "color", "auto", "color output: auto, always or never")
	runFlags.bind(root)

	root.AddCommand(
		a.runCmd(),
		a.stepCmd(),
		a.traceCmd(),
		a.checkCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the CLI version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
			},
		},
	)
	return root
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup() error {
	var (
		cfg *driver.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = driver.LoadConfig(a.configPath)
	} else {
		cfg, err = driver.LoadConfigFrom(".")
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg

	color, err := a.resolveColor()
	if err != nil {
		return err
	}
	a.color = color

	logger, err := driver.NewLogger(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug().Str("config", cfg.Path).Msg("configuration loaded")
	return nil
}

func (a *app) resolveColor() (bool, error) {
	switch a.colorMode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if a.cfg != nil && a.cfg.Step.Color != nil {
			return *a.cfg.Step.Color, nil
		}
		f, ok := a.stdout.(*os.File)
		return ok && isatty.IsTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("--color must be auto, always or never, got %q", a.colorMode)
	}
}

// report renders err as a diagnostic and returns errReported.
func (a *app) report(err error) error {
	if rerr := diag.Render(a.stderr, err, a.color); rerr != nil {
		return rerr
	}
	return errReported
}
