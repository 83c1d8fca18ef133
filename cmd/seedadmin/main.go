// Command seedadmin creates the first administrator account. It does nothing
// when an administrator already exists, so it is safe to run on every deploy.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/MrJamesThe3rd/vsla/internal/auth"
	"github.com/MrJamesThe3rd/vsla/internal/config"
	"github.com/MrJamesThe3rd/vsla/internal/database"
	"github.com/MrJamesThe3rd/vsla/internal/logging"
	"github.com/MrJamesThe3rd/vsla/internal/user"
	userStore "github.com/MrJamesThe3rd/vsla/internal/user/store"
)

var errAdminCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("seeding admin failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return errAdminCredentials
	}

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	store := userStore.New(db)

	admins, err := store.CountAdmins(ctx)
	if err != nil {
		return err
	}

	if admins > 0 {
		slog.Info("admin already present, nothing to do", "admins", admins)
		return nil
	}

	svc := user.NewService(store, auth.NewBcrypt(), auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))

	u, err := svc.Create(ctx, user.CreateParams{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		Role:         string(user.RoleAdmin),
		Organization: cfg.Admin.Organization,
		Branch:       cfg.Admin.Branch,
		BranchCode:   cfg.Admin.BranchCode,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("admin created", "id", u.ID, "email", u.Email)

	return nil
}
