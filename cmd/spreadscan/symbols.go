package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sawpanic/spreadscan/internal/data/venue/symbols"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List supported symbols and their venue spellings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(tw, "SYMBOL")
			for _, v := range types.Venues() {
				fmt.Fprintf(tw, "\t%s", v)
			}
			fmt.Fprintln(tw)

			for _, s := range symbols.Supported() {
				fmt.Fprint(tw, s)
				for _, v := range types.Venues() {
					wire, err := symbols.VenueSymbol(v, s)
					if err != nil {
						wire = "-"
					}
					fmt.Fprintf(tw, "\t%s", wire)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}
