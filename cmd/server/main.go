package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"citizenportal/internal/app"
	"citizenportal/internal/config"
	"citizenportal/internal/logger"
	"citizenportal/internal/metrics"
	"citizenportal/internal/scheduler"
	"citizenportal/internal/server"
	"citizenportal/internal/service"
	"citizenportal/internal/tokens"
	httptransport "citizenportal/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "err", err)
		os.Exit(1)
	}
	defer stores.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	content := service.NewContentService(stores.Content, m)
	tickets := service.NewTicketService(stores.Tickets, m)
	if m != nil {
		scheduler.NewBacklogReporter(content, tickets, m, cfg.Metrics.BacklogInterval).Start(ctx)
	}

	issuer := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	router := httptransport.Router(httptransport.Deps{
		Content:    content,
		Tickets:    tickets,
		Auth:       service.NewAuthService(stores.Admins, issuer),
		Issuer:     issuer,
		Store:      stores.Health,
		Metrics:    m,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Prod:       cfg.IsProd(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, ":"+cfg.Server.Port, router, server.Options{
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
