// Package cli implements the assetledger command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/internal/contract"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	dsn       string
	logLevel  string
	jsonMode  bool
	metrics   bool
}

// app is the state of one CLI run.
type app struct {
	flags    rootFlags
	registry *prometheus.Registry
	metrics  *contract.Metrics
}

func newApp() *app {
	reg := prometheus.NewRegistry()
	return &app{registry: reg, metrics: contract.NewMetrics(reg)}
}

// usageError marks a command-line mistake, as opposed to a ledger or
// system failure.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// NewRootCmd creates the top-level "assetledger" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assetledger",
		Short: "Track items and their owners on a key-value ledger",
		Long: "assetledger stores items and owners as records in a flat key-value\n" +
			"state store and keeps both sides of every ownership link consistent.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: ./.assetledger or the user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the sqlite backend (default: ./.assetledger-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "state backend: sqlite, postgres or memory")
	pf.StringVar(&a.flags.dsn, "dsn", "", "postgres connection string")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.metrics, "metrics", false, "print invocation metrics to stderr on exit")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newOwnerCmd(),
		a.newItemCmd(),
		a.newAuditCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
	)
	return root
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns its exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// exitCode maps an error to the process exit status: ledger rejections and
// usage mistakes are user errors, everything else is a system error.
func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &ue), types.IsDomainError(err):
		return exitUserError
	default:
		return exitSysError
	}
}

// positional wraps a cobra positional-argument validator so its failures count as
// usage errors.
func positional(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := fn(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}
