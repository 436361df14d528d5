// Package cmd implements the command line: the API server and the
// administrative commands for the patient table.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/config"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/db"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/logging"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "minimundos",
		Short:         "Solar yield and cardiac-risk reporting API",
		Long:          `minimundos serves read-only statistics over the solar panel CSV (/api/energia) and the cardiac-risk patient table (/api/saude), and manages that table from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags override the matching environment variables
	pf := root.PersistentFlags()
	pf.String("driver", config.DriverPostgres, "patient store driver: postgres or sqlite (DATABASE_DRIVER)")
	pf.String("sqlite", "db.sqlite3", "sqlite database file (SQLITE_PATH)")
	pf.String("log-level", "info", "debug, info, warn or error (LOG_LEVEL)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newPatientsCommand(),
		newConfigCommand(),
	)
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for cmd and builds its logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return cfg, nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()), nil
}

// openRepository loads config and connects to the patient store. The caller
// closes the returned repository.
func openRepository(ctx context.Context, cmd *cobra.Command) (db.Repository, config.Config, *slog.Logger, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	repo, err := db.Open(ctx, cfg, logging.Module(log, "db"))
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("db connection error: %w", err)
	}
	return repo, cfg, log, nil
}
