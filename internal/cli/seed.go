package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gbarzani/orgchart/internal/seed"
)

func newSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load the initial org chart fixture",
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
			if err := seed.Load(cmd.Context(), eng.store); err != nil {
				return err
			}
			slog.Info("fixture loaded", "nodes", len(seed.Tree()))
			return nil
		},
	}
}
