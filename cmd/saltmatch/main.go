package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivoronin/saltmatch/internal/config"
	"github.com/ivoronin/saltmatch/internal/observability"
	"github.com/ivoronin/saltmatch/internal/roster"
	"github.com/ivoronin/saltmatch/internal/targeting"
)

// Version is set via ldflags at build time.
var Version = "dev"

var errNoRoster = errors.New("no roster given (use --roster or " + config.EnvRoster + ")")

// app holds state shared by the commands of one invocation.
type app struct {
	stderr        io.Writer
	logLevel      string
	rosterPath    string
	moduleTimeout time.Duration
	logger        *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Load()
	a := &app{stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "saltmatch",
		Short: "Evaluate Salt compound expressions against grains and pillar data",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVarP(&a.rosterPath, "roster", "r", cfg.Roster, "Roster file (.yaml, .yml, .json, .db, .sqlite)")
	flags.DurationVar(&a.moduleTimeout, "module-timeout", cfg.ModuleTimeout, "Limit for each salt[...] call (0 disables)")

	rootCmd.AddCommand(a.newEvalCmd())
	rootCmd.AddCommand(a.newMatchCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(a.newCacheCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	level, err := observability.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = observability.NewLogger(a.stderr, level)
	return nil
}

func (a *app) loadRoster() (*roster.Roster, error) {
	if a.rosterPath == "" {
		return nil, errNoRoster
	}
	r, err := roster.LoadFile(a.rosterPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("roster loaded",
		slog.String("path", a.rosterPath),
		slog.Int("targets", len(r.Targets)),
	)
	return r, nil
}

func (a *app) matchOptions() []targeting.Option {
	return []targeting.Option{
		targeting.WithLogger(a.logger),
		targeting.WithMetrics(observability.NewMetricsRecorder()),
		targeting.WithModuleTimeout(a.moduleTimeout),
	}
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitInputError
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
