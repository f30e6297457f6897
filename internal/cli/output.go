package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/assetledger/internal/entity"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printItems(w io.Writer, items []*types.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOLOR\tSIZE\tVALUE\tOWNER")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", it.ItemID, it.Color, it.Size, it.AppraisedValue, it.OwnerID)
	}
	return tw.Flush()
}

func printOwners(w io.Writer, owners []*types.Owner) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tITEMS")
	for _, o := range owners {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", o.OwnerID, o.FirstName, o.LastName, strings.Join(o.OwnedItemIDs, ","))
	}
	return tw.Flush()
}

func printViolations(w io.Writer, violations []entity.Violation) error {
	for _, v := range violations {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}
