package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/handler/ws"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/usecase"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/cache"
	pkgch "github.com/Dheeraj-Sharma-gif/WeFn/pkg/clickhouse"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/config"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	pkgkafka "github.com/Dheeraj-Sharma-gif/WeFn/pkg/kafka"
	applogger "github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handlers   []xhttp.Handler
	engine     *usecase.Dashboard
	sched      *usecase.Scheduler
	hub        *ws.Hub
	redis      *cache.RedisCache
	probeCache cache.BytesCache
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	engine *usecase.Dashboard,
	sched *usecase.Scheduler,
	hub *ws.Hub,
	redis *cache.RedisCache,
	probeCache cache.BytesCache,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		handlers:   handlers,
		engine:     engine,
		sched:      sched,
		hub:        hub,
		redis:      redis,
		probeCache: probeCache,
		chClient:   chClient,
		producer:   producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if !a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(""))
	} else if a.cfg.Metrics.Path != "" {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(a.handlers, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Seed the dashboard engine from the remote collection and start
	// polling. A failed seed leaves the dashboard empty; it is not
	// fatal for the server surface.
	if a.engine != nil {
		if err := a.engine.Seed(ctx); err != nil {
			a.logger.Warn("dashboard seed failed", applogger.Error(err))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.hub != nil {
		a.hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.probeCache != nil && a.probeCache != cache.BytesCache(a.redis) {
		if err := a.probeCache.Close(); err != nil {
			a.logger.Warn("probe cache close error", applogger.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
