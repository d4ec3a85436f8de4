package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	console "github.com/efiling/console"
	"github.com/efiling/console/config"
	httpx "github.com/efiling/console/internal/http"
	"github.com/efiling/console/internal/ports"
	"github.com/efiling/console/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config    *config.AppConfig
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Backend   ports.BackendClient
	Logger    *slog.Logger
}

// BuildHTTPHandler assembles the console router with its handlers.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := fs.Sub(console.TemplateFS, "web")
	if err != nil {
		return nil, fmt.Errorf("template filesystem: %w", err)
	}
	static, err := fs.Sub(console.StaticFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("static filesystem: %w", err)
	}

	renderer, err := httpx.NewRenderer(templates, logger)
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	authHandlers := httpx.NewAuthHandlers(httpx.AuthHandlersOptions{
		Svc:          cfg.Auth,
		Renderer:     renderer,
		Logger:       logger,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		SSOEnabled:   cfg.Config.Auth.Mode != config.AuthModePassword,
		SSOLogoutURL: ssoLogoutURL(cfg.Config.Auth),
	})

	uiHandlers := httpx.NewUIHandlers(httpx.UIHandlersOptions{
		Renderer: renderer,
		Dash:     cfg.Dashboard,
		Client:   cfg.Backend,
		Logger:   logger,
	})

	return httpx.NewRouter(httpx.RouterOptions{
		AuthSvc: cfg.Auth,
		Auth:    authHandlers,
		UI:      uiHandlers,
		Proxy:   httpx.NewProxyHandler(cfg.Backend, cfg.Auth, logger),
		Static:  static,
		Logger:  logger,
	}), nil
}

// ssoLogoutURL resolves the IdP end-session endpoint for RP-initiated logout.
// Only the OIDC mode has one; password and mock logins end locally.
func ssoLogoutURL(auth config.AuthConfig) string {
	if auth.Mode != config.AuthModeOIDC {
		return ""
	}
	return auth.OIDC.LogoutURL
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return nil, err
	}

	return startServer(logger, handler, cfg.Config.HTTP.Addr), nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
