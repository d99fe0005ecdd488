package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
)

func newOrdersCmd(envFile *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Print the persisted order history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, repo, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer repo.Close()

			list, err := orders.NewHistory(repo).List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return printOrders(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printOrders(w io.Writer, list []domain.Order) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no orders yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, o := range list {
		items := 0
		for _, item := range o.Items {
			items += item.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\n", o.ID, o.Date.Format("2006-01-02 15:04"), items, o.TotalPrice, o.Status)
	}
	return tw.Flush()
}
