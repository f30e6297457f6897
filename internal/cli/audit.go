package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/internal/entity"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func (a *app) newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every item and owner link",
		Long: "Scan all records and report each place where an item and its owner\n" +
			"disagree. Exits with status 1 when any violation is found.",
		Args: positional(cobra.NoArgs),
		RunE: a.withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			violations, err := s.ledger.Audit()
			if err != nil {
				return err
			}
			if violations == nil {
				violations = []entity.Violation{}
			}
			if a.flags.jsonMode {
				err = printJSON(cmd.OutOrStdout(), violations)
			} else {
				err = printViolations(cmd.OutOrStdout(), violations)
			}
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d violations found: %w", len(violations), types.ErrInvalidState)
			}
			if !a.flags.jsonMode {
				fmt.Fprintln(cmd.OutOrStdout(), "No violations")
			}
			return nil
		}),
	}
}
