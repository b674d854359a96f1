package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketSnap/pkg/config"
	xhttp "MarketSnap/pkg/http"
	applogger "MarketSnap/pkg/logger"
)

// App encapsulates the API server lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *App {
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: srv,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or an
// interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("marketsnap started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("redis", a.cfg.Redis.Enabled),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("clickhouse", a.cfg.ClickHouse.Enabled),
	)

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-a.httpServer.Err():
		_ = a.shutdown()
		return err
	}
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server. Backing clients are closed by
// the injector cleanup.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
