// Package commands holds the ledger_engine command line: the HTTP server and the
// operator tasks that run against the same database.
package commands

import (
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand needs once the root pre-run has loaded it.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "ledger_engine",
		Short: "Double-entry bookkeeping engine",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.logger = newLogger(cfg)
			slog.SetDefault(app.logger)
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCommand(app),
		newMigrateCommand(app),
		newVerifyCommand(app),
		newRebuildBalancesCommand(app),
		newReconciliationDueCommand(app),
		newIssueTokenCommand(app),
	)

	return rootCmd
}

// newLogger builds the JSON logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
