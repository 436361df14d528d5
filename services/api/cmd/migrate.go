package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the patient table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, cfg, _, err := openRepository(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Schema ready (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	}
}
