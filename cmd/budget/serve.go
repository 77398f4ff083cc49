package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"budget/internal/audit"
	"budget/internal/config"
	"budget/internal/domain"
	"budget/internal/jwtsigner"
	"budget/internal/observability/metrics"
	impl "budget/internal/service/impl"
	transport "budget/internal/transport/http"
	"budget/pkg/db"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(conf func() config.Config) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := conf()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			if migrate {
				sqlDB, err := st.DB.DB()
				if err != nil {
					return err
				}
				if err := db.RunMigrations(ctx, sqlDB); err != nil {
					return err
				}
			}

			reg, err := audit.NewRegistry(st.DB.NamingStrategy, domain.AuditedModels()...)
			if err != nil {
				return err
			}
			tracker := audit.NewTracker(reg, audit.WithLogger(slog.Default()))

			signer, err := jwtsigner.NewFromBase64(cfg.SigningKey, cfg.SigningKeyID, cfg.Issuer)
			if err != nil {
				return err
			}
			if cfg.SigningKey == "" {
				slog.Warn("SIGNING_KEY not set, using an ephemeral key")
			}
			tokens := impl.NewTokenService(impl.TokenConfig{AccessTTL: cfg.AccessTTL}, signer)

			metrics.MustRegister("budget")

			router := transport.NewRouter(transport.Deps{
				Store:          st,
				Auth:           impl.NewAuthServiceImpl(st, tracker, impl.NewPasswordServiceArgon2id(), tokens),
				Tokens:         tokens,
				Households:     impl.NewHouseholdServiceImpl(st, tracker),
				Categories:     impl.NewCategoryServiceImpl(st, tracker),
				Budgets:        impl.NewBudgetServiceImpl(st, tracker),
				Expenses:       impl.NewExpenseServiceImpl(st, tracker),
				Funds:          impl.NewFundServiceImpl(st, tracker),
				Audit:          impl.NewAuditServiceImpl(st),
				CORSOrigins:    cfg.CORSOrigins,
				RateLimit:      cfg.RateLimit,
				RequestTimeout: 30 * time.Second,
			})

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				slog.Info("budget service listening", "addr", srv.Addr, "issuer", cfg.Issuer, "tables", reg.Tables())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				slog.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if sqlDB, err := st.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
