package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/efiling/console/config"
	"github.com/efiling/console/internal/adapters/efapi"
	"github.com/efiling/console/internal/service"
)

// App holds the wired console services and their shared resources.
type App struct {
	Config    *config.AppConfig
	Logger    *slog.Logger
	Redis     redis.UniversalClient
	Backend   *efapi.Client
	Auth      *service.AuthService
	Dashboard *service.DashboardService
}

// BuildApp wires adapters and services from configuration.
func BuildApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := efapi.New(efapi.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}

	redisClient, err := ConnectRedis(ctx, cfg.Session.Redis, logger)
	if err != nil {
		return nil, err
	}

	authSvc := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		SessionTTL:  cfg.Session.TTL,
		KeyPrefix:   cfg.Session.KeyPrefix,
		Backend:     backend,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if authSvc == nil {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Warn("close redis client", "error", closeErr)
		}
		return nil, errors.New("auth service could not be configured")
	}

	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Client: backend,
		Logger: logger,
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		Redis:     redisClient,
		Backend:   backend,
		Auth:      authSvc,
		Dashboard: dashboard,
	}, nil
}

// Close releases the app's shared resources.
func (a *App) Close() error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Close()
}

// Run starts the HTTP server and blocks until a shutdown signal arrives.
func Run(ctx context.Context, app *App) error {
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:    app.Config,
		Auth:      app.Auth,
		Dashboard: app.Dashboard,
		Backend:   app.Backend,
		Logger:    app.Logger,
	})
	if err != nil {
		return err
	}

	waitForShutdown(ctx, app.Logger)

	return ShutdownHTTPServer(context.Background(), server, app.Logger)
}

// waitForShutdown blocks until SIGINT/SIGTERM or context cancellation.
func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}
}
