package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func (a *app) newOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Create and inspect owners",
	}
	cmd.AddCommand(
		a.newOwnerCreateCmd(),
		a.newOwnerGetCmd(),
		a.newOwnerListCmd(),
		a.newOwnerItemsCmd(),
	)
	return cmd
}

func (a *app) newOwnerCreateCmd() *cobra.Command {
	var first, last string
	cmd := &cobra.Command{
		Use:     "create <owner-id>",
		Short:   "Create an owner with no items",
		Example: "  assetledger owner create Tomoko1 --first Tomoko --last Roy",
		Args:    positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			o, err := s.ledger.CreateOwner(args[0], first, last)
			if err != nil {
				return err
			}
			return a.printOwner(cmd, o)
		}),
	}
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	return cmd
}

func (a *app) newOwnerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner-id>",
		Short: "Show an owner",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			o, err := s.ledger.ReadOwner(args[0])
			if err != nil {
				return err
			}
			return a.printOwner(cmd, o)
		}),
	}
}

func (a *app) newOwnerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every owner with the ids of the items it holds",
		Args:  positional(cobra.NoArgs),
		RunE: a.withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			owners, err := s.ledger.GetAllOwners()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), owners)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tITEMS")
			for _, id := range slices.Sorted(maps.Keys(owners)) {
				fmt.Fprintf(tw, "%s\t%s\n", id, strings.Join(owners[id], ","))
			}
			return tw.Flush()
		}),
	}
}

func (a *app) newOwnerItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <owner-id>",
		Short: "List the items an owner holds",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			items, err := s.ledger.GetAllItemsOfOwner(args[0])
			if err != nil {
				return err
			}
			return a.printItemList(cmd, items)
		}),
	}
}

func (a *app) printOwner(cmd *cobra.Command, o *types.Owner) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), o)
	}
	return printOwners(cmd.OutOrStdout(), []*types.Owner{o})
}
