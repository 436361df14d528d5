package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/config"
	httpserver "github.com/02loveslollipop/minimundos-dashboard/services/api/http"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cmd)
		},
	}
	cmd.Flags().Int("port", 8000, "listen port (PORT / API_PORT)")
	cmd.Flags().String("data", "dados/painel_solar.csv", "solar CSV path (SOLAR_DATA_PATH)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	repo, cfg, log, err := openRepository(ctx, cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	// a fresh sqlite file has no table yet
	if cfg.DatabaseDriver == config.DriverSQLite {
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := httpserver.New(cfg, repo, log)
	if err != nil {
		return err
	}
	log.Info("starting",
		slog.String("solar_data_path", cfg.SolarDataPath),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("metrics", cfg.MetricsEnabled),
	)
	return srv.Run(ctx)
}
