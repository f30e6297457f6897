package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the state store",
		Long: "Create the configuration directory and config.yaml if missing, then open\n" +
			"the configured backend so its schema exists. With --seed, write the\n" +
			"sample owners and items.",
		Args: positional(cobra.NoArgs),
		RunE: a.withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			if seed {
				if err := s.ledger.InitLedger(); err != nil {
					return err
				}
			}
			where := s.settings.store.DataDir
			if s.settings.store.Backend != types.BackendSQLite {
				where = s.settings.store.Backend
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ledger initialized (%s)\nconfig: %s\n", where, s.settings.configDir)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "write sample owners and items")
	return cmd
}
