package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/pkg/ledger"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the assetledger version",
		Args:  positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"version": ledger.Version, "module": ledger.ModulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assetledger v%s\nmodule: %s\n", ledger.Version, ledger.ModulePath)
			return nil
		},
	}
}
