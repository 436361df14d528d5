package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/config"
)

// Open connects to the backend selected by cfg.DatabaseDriver.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (Repository, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		store, err := New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return store, nil
	case config.DriverSQLite:
		store, err := NewGormStore(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
