package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newSearchCommand(opts *RootOptions) *cobra.Command {
	var language string
	var pageNum, pageSize int

	cmd := &cobra.Command{
		Use:   "search <parent-id> <term>",
		Short: "Search a node's descendants by name, at any depth",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			size := eng.pageSize(cmd.Flags().Changed("page-size"), pageSize)
			views, err := eng.query.SearchDescendants(cmd.Context(), parentID, language, args[1], pageNum, size)
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
