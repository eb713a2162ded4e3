package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the tree schema in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			slog.Info("schema ready", "driver", eng.cfg.Database.Driver)
			return nil
		},
	}
}
