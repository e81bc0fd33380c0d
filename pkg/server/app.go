package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/winnervic367/trading-analyser/internal/handler/ws"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	"github.com/winnervic367/trading-analyser/pkg/config"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	pkgkafka "github.com/winnervic367/trading-analyser/pkg/kafka"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// Resource is an infrastructure client closed on shutdown.
type Resource struct {
	Name  string
	Close func() error
}

// Resources are closed in reverse order of appearance.
type Resources []Resource

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	sched      scheduler.Scheduler
	updater    *usecase.RealtimeUpdater
	hub        *ws.Hub
	consumer   *pkgkafka.Consumer
	resources  Resources
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	httpServer *xhttp.Server,
	sched scheduler.Scheduler,
	updater *usecase.RealtimeUpdater,
	hub *ws.Hub,
	consumer *pkgkafka.Consumer,
	resources Resources,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger.With("app"),
		httpServer: httpServer,
		sched:      sched,
		updater:    updater,
		hub:        hub,
		consumer:   consumer,
		resources:  resources,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
		a.logger.Error("http server exited", applogger.Error(runErr))
	}

	a.Shutdown(context.Background())
	return runErr
}

// Start brings up the hub, the outcome consumer (kafka route only), the
// scheduler, the driver when autostart is set, and finally the HTTP listener.
func (a *App) Start(ctx context.Context) error {
	go a.hub.Run(ctx)

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.logger.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
	}

	a.sched.Start()
	if a.cfg.Simulation.Autostart {
		if err := a.updater.Start(); err != nil {
			a.logger.Error("realtime autostart failed", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Duration("tick_interval", a.cfg.Simulation.TickInterval),
		applogger.Bool("autostart", a.cfg.Simulation.Autostart),
	)
	return nil
}

// Shutdown stops everything in reverse start order. Errors are logged, not returned.
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.updater.Stop()
	select {
	case <-a.sched.Stop().Done():
	case <-shutdownCtx.Done():
		a.logger.Warn("scheduler stop timed out", applogger.Duration("timeout", a.cfg.Server.ShutdownTimeout))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Error("kafka consumer stop error", applogger.Error(err))
		}
	}

	_ = a.hub.Close()

	for i := len(a.resources) - 1; i >= 0; i-- {
		r := a.resources[i]
		if r.Close == nil {
			continue
		}
		start := time.Now()
		if err := r.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", r.Name), applogger.Error(err))
			continue
		}
		a.logger.Debug("closed", applogger.String("resource", r.Name), applogger.Duration("took", time.Since(start)))
	}

	a.logger.Info("shutdown complete")
}
