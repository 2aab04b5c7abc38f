package commands

import (
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	for _, direction := range []string{database.MigrateUp, database.MigrateDown} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: "Run every " + direction + " migration from MIGRATIONS_PATH",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.RunMigrations(app.cfg.DatabaseURL, app.cfg.MigrationsPath, direction, app.logger)
			},
		})
	}
	return cmd
}
