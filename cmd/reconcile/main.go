// Command reconcile rebuilds the group and member totals from the ledgers
// once and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MrJamesThe3rd/vsla/internal/config"
	"github.com/MrJamesThe3rd/vsla/internal/database"
	"github.com/MrJamesThe3rd/vsla/internal/logging"
	"github.com/MrJamesThe3rd/vsla/internal/reconcile"
	reconcileStore "github.com/MrJamesThe3rd/vsla/internal/reconcile/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("reconcile failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Reconcile.Timeout)
	defer cancel()

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	_, err = reconcile.NewService(reconcileStore.New(db)).Run(ctx)

	return err
}
