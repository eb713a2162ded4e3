package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gbarzani/orgchart/modules/tree/domain/types"
)

func newGetCommand(opts *RootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "get <node-id>",
		Short: "Fetch a single node by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			view, err := eng.query.FetchByID(cmd.Context(), id, language)
			if err != nil {
				return err
			}
			return renderViews(cmd.OutOrStdout(), opts.Format, []types.NodeView{view})
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "display language (required)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}
