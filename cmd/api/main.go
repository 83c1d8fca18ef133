package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/vsla/internal/auth"
	"github.com/MrJamesThe3rd/vsla/internal/config"
	"github.com/MrJamesThe3rd/vsla/internal/database"
	"github.com/MrJamesThe3rd/vsla/internal/distribution"
	distributionStore "github.com/MrJamesThe3rd/vsla/internal/distribution/store"
	"github.com/MrJamesThe3rd/vsla/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/vsla/internal/expense/store"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupStore "github.com/MrJamesThe3rd/vsla/internal/group/store"
	vslaHttp "github.com/MrJamesThe3rd/vsla/internal/http"
	distributionHandler "github.com/MrJamesThe3rd/vsla/internal/http/distribution"
	expenseHandler "github.com/MrJamesThe3rd/vsla/internal/http/expense"
	groupHandler "github.com/MrJamesThe3rd/vsla/internal/http/group"
	loanHandler "github.com/MrJamesThe3rd/vsla/internal/http/loan"
	memberHandler "github.com/MrJamesThe3rd/vsla/internal/http/member"
	"github.com/MrJamesThe3rd/vsla/internal/http/metrics"
	reconcileHandler "github.com/MrJamesThe3rd/vsla/internal/http/reconcile"
	reportHandler "github.com/MrJamesThe3rd/vsla/internal/http/report"
	savingsHandler "github.com/MrJamesThe3rd/vsla/internal/http/savings"
	socialFundHandler "github.com/MrJamesThe3rd/vsla/internal/http/socialfund"
	userHandler "github.com/MrJamesThe3rd/vsla/internal/http/user"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
	loanStore "github.com/MrJamesThe3rd/vsla/internal/loan/store"
	"github.com/MrJamesThe3rd/vsla/internal/logging"
	"github.com/MrJamesThe3rd/vsla/internal/member"
	memberStore "github.com/MrJamesThe3rd/vsla/internal/member/store"
	"github.com/MrJamesThe3rd/vsla/internal/reconcile"
	reconcileStore "github.com/MrJamesThe3rd/vsla/internal/reconcile/store"
	"github.com/MrJamesThe3rd/vsla/internal/report"
	reportStore "github.com/MrJamesThe3rd/vsla/internal/report/store"
	"github.com/MrJamesThe3rd/vsla/internal/savings"
	savingsStore "github.com/MrJamesThe3rd/vsla/internal/savings/store"
	"github.com/MrJamesThe3rd/vsla/internal/socialfund"
	socialFundStore "github.com/MrJamesThe3rd/vsla/internal/socialfund/store"
	"github.com/MrJamesThe3rd/vsla/internal/user"
	userStore "github.com/MrJamesThe3rd/vsla/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	writeRoles, err := parseRoles(cfg.Auth.WriteRoles)
	if err != nil {
		return err
	}

	var (
		tokens  = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		members = memberStore.New(db)
		loans   = loanStore.New(db)
	)

	var (
		userService         = user.NewService(userStore.New(db), auth.NewBcrypt(), tokens)
		groupService        = group.NewService(groupStore.New(db), cfg.Group.SingleGroupMode)
		memberService       = member.NewService(members, groupService)
		loanService         = loan.NewService(loans, groupService, members)
		savingsService      = savings.NewService(savingsStore.New(db), groupService, members)
		expenseService      = expense.NewService(expenseStore.New(db), groupService, members)
		socialFundService   = socialfund.NewService(socialFundStore.New(db), groupService, members)
		distributionService = distribution.NewService(distributionStore.New(db), groupService, members, loans)
		reportService       = report.NewService(reportStore.New(db), groupService)
		reconcileService    = reconcile.NewService(reconcileStore.New(db))
	)

	handlers := vslaHttp.Handlers{
		Users:         userHandler.NewHandler(userService),
		Groups:        groupHandler.NewHandler(groupService),
		Members:       memberHandler.NewHandler(memberService),
		Loans:         loanHandler.NewHandler(loanService),
		Savings:       savingsHandler.NewHandler(savingsService),
		Expenses:      expenseHandler.NewHandler(expenseService),
		SocialFunds:   socialFundHandler.NewHandler(socialFundService),
		Distributions: distributionHandler.NewHandler(distributionService),
		Reports:       reportHandler.NewHandler(reportService),
		Reconcile:     reconcileHandler.NewHandler(reconcileService),
	}

	router := vslaHttp.New(handlers, vslaHttp.Options{
		Tokens:         tokens,
		Users:          userService,
		WriteRoles:     writeRoles,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        metrics.New(cfg.App.Name),
	})

	if cfg.Reconcile.Schedule != "" {
		scheduler, err := reconcile.NewScheduler(cfg.Reconcile.Schedule, reconcileService, cfg.Reconcile.Timeout)
		if err != nil {
			return err
		}

		scheduler.Start()
		defer scheduler.Stop()

		slog.Info("reconcile scheduled", "schedule", cfg.Reconcile.Schedule)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "single_group_mode", cfg.Group.SingleGroupMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func parseRoles(names []string) ([]user.Role, error) {
	roles := make([]user.Role, 0, len(names))

	for _, name := range names {
		role, err := user.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("parsing write role %q: %w", name, err)
		}

		roles = append(roles, role)
	}

	return roles, nil
}
