package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/internal/keys"
	"github.com/mesh-intelligence/assetledger/internal/state"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every item and owner record to a JSONL file",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			prefixes := make([]string, 0, len(types.Kinds))
			for _, k := range types.Kinds {
				prefixes = append(prefixes, keys.Prefix(k))
			}
			n, err := state.Export(s.store, args[0], prefixes...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, args[0])
			return nil
		}),
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load records from a JSONL file written by export",
		Long: "Put every record from the file into the state store, replacing records\n" +
			"with the same key. Run audit afterwards to check the result.",
		Args: positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			n, err := state.Import(s.store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", n, args[0])
			return nil
		}),
	}
}
