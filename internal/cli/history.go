package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent inserts from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			recs, err := eng.store.ListInsertions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "REQUEST\tNODE\tPARENT\tAT")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.RequestID, r.NodeID, r.ParentID, r.InsertedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}
