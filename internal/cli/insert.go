package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/modules/tree/services"
)

func newInsertCommand(opts *RootOptions) *cobra.Command {
	var names map[string]string
	var language, requestID string

	cmd := &cobra.Command{
		Use:   "insert <parent-id>",
		Short: "Append a node as the last child of a parent",
		Long: `Append a node as the last child of an existing parent.

Names must be given for every configured language, for example:

  orgchart insert 5 --name English="Human Resources" --name Italian="Risorse Umane"`,
		Args: cobra.ExactArgs(1),
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

			view, err := eng.write.InsertLastChild(cmd.Context(), services.InsertNodeRequest{
				ParentID:  parentID,
				Names:     names,
				Language:  language,
				RequestID: requestID,
			})
			if err != nil {
				return err
			}
			return renderViews(cmd.OutOrStdout(), opts.Format, []types.NodeView{view})
		},
	}

	cmd.Flags().StringToStringVar(&names, "name", nil, "language=name pair (repeatable)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language for the returned name")
	cmd.Flags().StringVar(&requestID, "request-id", "", "correlation id for the insert journal")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
