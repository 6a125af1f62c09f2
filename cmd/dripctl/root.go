package main

import (
	"github.com/spf13/cobra"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dripctl",
		Short:         "DRIP screener command line tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCalcCmd(), newMigrateCmd(), newCatalogCmd())
	return root
}

// addDBFlag registers the --db flag shared by the database commands.
func addDBFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVar(path, "db", database.InMemory, "SQLite database path")
}
