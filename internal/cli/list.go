package cli

import (
	"github.com/spf13/cobra"
)

func newListCommand(opts *RootOptions) *cobra.Command {
	var language string
	var pageNum, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all nodes in pre-order, paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			size := eng.pageSize(cmd.Flags().Changed("page-size"), pageSize)
			views, err := eng.query.FetchAll(cmd.Context(), language, pageNum, size)
			if err != nil {
				return err
			}
			return renderViews(cmd.OutOrStdout(), opts.Format, views)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "display language (required)")
	cmd.Flags().IntVar(&pageNum, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (defaults from config)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}
