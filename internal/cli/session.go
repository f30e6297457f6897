package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/internal/contract"
	"github.com/mesh-intelligence/assetledger/internal/state"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// session is an open store plus the contract running on it.
type session struct {
	settings *settings
	store    types.StateStore
	ledger   *contract.Contract
	log      *slog.Logger
}

// newLogger builds the stderr text logger for level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, usageError{fmt.Errorf("invalid log level %q", level)}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func (a *app) openSession(cmd *cobra.Command) (*session, error) {
	s, err := a.resolveSettings()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd.ErrOrStderr(), s.logLevel)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(s.store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", s.store.Backend, err)
	}
	log.Debug("store opened", "backend", s.store.Backend, "data_dir", s.store.DataDir)

	return &session{
		settings: s,
		store:    store,
		ledger:   contract.New(store, contract.WithLogger(log), contract.WithMetrics(a.metrics)),
		log:      log,
	}, nil
}

// withSession adapts fn into a cobra RunE that opens a session for the
// command and closes it afterwards.
func (a *app) withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.openSession(cmd)
		if err != nil {
			return err
		}
		runErr := fn(cmd, args, s)
		closeErr := s.store.Close()
		if a.flags.metrics {
			if err := a.writeMetrics(cmd.ErrOrStderr()); err != nil {
				s.log.Warn("writing metrics", "error", err)
			}
		}
		if runErr != nil {
			return runErr
		}
		if closeErr != nil {
			return fmt.Errorf("close store: %w", closeErr)
		}
		return nil
	}
}

// writeMetrics prints the invocation metrics in the Prometheus text format.
func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	var errs []error
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "assetledger_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
