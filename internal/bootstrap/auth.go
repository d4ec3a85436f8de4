package bootstrap

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/efiling/console/config"
	"github.com/efiling/console/internal/adapters/authroles"
	"github.com/efiling/console/internal/adapters/devauth"
	"github.com/efiling/console/internal/adapters/oidc"
	redisadapter "github.com/efiling/console/internal/adapters/redis"
	"github.com/efiling/console/internal/ports"
	"github.com/efiling/console/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	SessionTTL  time.Duration
	KeyPrefix   string
	Backend     ports.AuthBackend
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Redis session store shared by every mode
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.KeyPrefix)

	// Role mapper is shared by the SSO modes
	roleMapper := authroles.StaticRoleMapper{
		AdminGroup:         cfg.Auth.Groups.Admin,
		BackOfficeGroup:    cfg.Auth.Groups.BackOffice,
		ExternalGroup:      cfg.Auth.Groups.External,
		InstitutionalGroup: cfg.Auth.Groups.Institutional,
	}

	opts := service.AuthServiceOptions{
		Backend:    cfg.Backend,
		Sessions:   sessionStore,
		Roles:      roleMapper,
		SessionTTL: cfg.SessionTTL,
	}

	switch cfg.Auth.Mode {
	case config.AuthModePassword:
		return service.NewAuthService(opts)

	case config.AuthModeMock:
		return buildDevAuthService(cfg, opts)

	case config.AuthModeOIDC:
		return buildOIDCAuthService(cfg, opts)

	default:
		return nil
	}
}

func buildDevAuthService(cfg AuthConfig, opts service.AuthServiceOptions) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.Auth.DevAuth.UserID,
		Email:  cfg.Auth.DevAuth.Email,
		Groups: cfg.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	opts.Provider = prov
	return service.NewAuthService(opts)
}

func buildOIDCAuthService(cfg AuthConfig, opts service.AuthServiceOptions) *service.AuthService {
	// Only enable when fully configured
	oc := cfg.Auth.OIDC
	if oc.DiscoveryURL == "" || oc.ClientID == "" || oc.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOIDC selected but required config missing; auth disabled",
				"discovery_url_empty", oc.DiscoveryURL == "",
				"client_id_empty", oc.ClientID == "",
				"client_secret_empty", oc.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oc.ClientID,
		ClientSecret: oc.ClientSecret,
		RedirectURL:  oc.RedirectURL,
		Scope:        oc.Scope,
		DiscoveryURL: oc.DiscoveryURL,
		LogoutURL:    oc.LogoutURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	opts.Provider = prov
	return service.NewAuthService(opts)
}
