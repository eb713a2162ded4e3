package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbarzani/orgchart/pkg/nestedset"
)

func newCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the nested-set invariants over the whole tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			count, err := eng.store.CountNodes(cmd.Context())
			if err != nil {
				return err
			}
			nodes, err := eng.store.ListNodes(cmd.Context(), int(count), 0)
			if err != nil {
				return err
			}
			bounds := make([]nestedset.Bounds, len(nodes))
			for i, n := range nodes {
				bounds[i] = n.Bounds()
			}
			if err := nestedset.Validate(bounds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes, bounds consistent\n", len(nodes))
			return nil
		},
	}
}
