package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the catalog",
		Long: `Applies pending schema migrations to the database and loads the catalog
fixture if the catalog is empty. Running it twice is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return err
			}
			seeded, err := database.Seed(ctx, db)
			if err != nil {
				return err
			}
			current, err := database.SchemaVersion(ctx, db)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations (schema version %d), seeded %d instruments\n", applied, current, seeded)
			return nil
		},
	}

	addDBFlag(cmd, &dbPath)
	return cmd
}
