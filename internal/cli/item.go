package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func (a *app) newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Create, transfer, delete and inspect items",
	}
	cmd.AddCommand(
		a.newItemCreateCmd(),
		a.newItemGetCmd(),
		a.newItemDeleteCmd(),
		a.newItemTransferCmd(),
		a.newItemOwnerCmd(),
		a.newItemExistsCmd(),
		a.newItemListCmd(),
	)
	return cmd
}

// itemAttrs holds the descriptive attributes fixed when an item is created.
type itemAttrs struct {
	color string
	size  int
	value int
}

func (at *itemAttrs) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&at.color, "color", "", "category label")
	cmd.Flags().IntVar(&at.size, "size", 0, "magnitude")
	cmd.Flags().IntVar(&at.value, "value", 0, "appraised value")
}

func (a *app) newItemCreateCmd() *cobra.Command {
	var (
		attrs   itemAttrs
		ownerID string
	)
	cmd := &cobra.Command{
		Use:   "create [item-id]",
		Short: "Create an item under an existing owner",
		Long: "Create an item and register it with its owner. Without an item id a\n" +
			"time-ordered UUID is generated.",
		Example: "  assetledger item create asset1 --owner Tomoko1 --color blue --size 5 --value 300",
		Args:    positional(cobra.MaximumNArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			it, err := s.ledger.CreateItem(id, attrs.color, attrs.size, ownerID, attrs.value)
			if err != nil {
				return err
			}
			return a.printItem(cmd, it)
		}),
	}
	attrs.bind(cmd)
	cmd.Flags().StringVar(&ownerID, "owner", "", "id of the owning owner")
	return cmd
}

func (a *app) newItemGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Show an item",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			it, err := s.ledger.ReadItem(args[0])
			if err != nil {
				return err
			}
			return a.printItem(cmd, it)
		}),
	}
}

func (a *app) newItemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and remove it from its owner",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.ledger.DeleteItem(args[0]); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
			return nil
		}),
	}
}

func (a *app) newItemTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <item-id> <new-owner-id>",
		Short: "Move an item to another owner",
		Args:  positional(cobra.ExactArgs(2)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			previous, err := s.ledger.TransferItem(args[0], args[1])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"item_id":        args[0],
					"previous_owner": previous,
					"new_owner":      args[1],
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transferred item %s from %s to %s\n", args[0], previous, args[1])
			return nil
		}),
	}
}

func (a *app) newItemOwnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner <item-id>",
		Short: "Show the owner holding an item",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			o, err := s.ledger.GetOwnerOfItem(args[0])
			if err != nil {
				return err
			}
			return a.printOwner(cmd, o)
		}),
	}
}

func (a *app) newItemExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <item-id>",
		Short: "Report whether an item exists",
		Args:  positional(cobra.ExactArgs(1)),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ok, err := s.ledger.ItemExists(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]bool{"exists": ok})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		}),
	}
}

func (a *app) newItemListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item",
		Args:  positional(cobra.NoArgs),
		RunE: a.withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			items, err := s.ledger.GetAllItems()
			if err != nil {
				return err
			}
			return a.printItemList(cmd, items)
		}),
	}
}

func (a *app) printItem(cmd *cobra.Command, it *types.Item) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), it)
	}
	return printItems(cmd.OutOrStdout(), []*types.Item{it})
}

func (a *app) printItemList(cmd *cobra.Command, items []*types.Item) error {
	if items == nil {
		items = []*types.Item{}
	}
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), items)
	}
	return printItems(cmd.OutOrStdout(), items)
}
