package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/placementhub/portal-api/config"
	"github.com/placementhub/portal-api/internal/adapters/authroles"
	"github.com/placementhub/portal-api/internal/adapters/devsso"
	"github.com/placementhub/portal-api/internal/adapters/memvault"
	"github.com/placementhub/portal-api/internal/adapters/notify"
	"github.com/placementhub/portal-api/internal/adapters/pgident"
	"github.com/placementhub/portal-api/internal/adapters/redisvault"
	"github.com/placementhub/portal-api/internal/adapters/ssoauth"
	httpx "github.com/placementhub/portal-api/internal/http"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/session"
)

// AuthDepsConfig contains dependencies for auth wiring.
type AuthDepsConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildStoreFactory wires the per-client session stores to the configured
// identity vault.
func BuildStoreFactory(cfg AuthDepsConfig) httpx.StoreFactory {
	logger := cfg.Logger

	if cfg.Config.Vault.Backend == config.VaultBackendMemory {
		if logger != nil {
			logger.Warn("identity vault running in memory; sessions will not survive a restart")
		}
		vault := memvault.New()
		return func(clientID string) *session.Store {
			return session.NewStore(vault.ForClient(clientID), logger)
		}
	}

	vault := redisvault.New(cfg.RedisClient,
		redisvault.WithPrefix(cfg.Config.Vault.Prefix),
		redisvault.WithTTL(cfg.Config.Vault.TTL),
	)
	return func(clientID string) *session.Store {
		return session.NewStore(vault.ForClient(clientID), logger)
	}
}

// BuildAuthDeps assembles the identity backend, notifier, and optional SSO
// provider for the HTTP layer based on the configured auth mode.
func BuildAuthDeps(ctx context.Context, cfg AuthDepsConfig) (httpx.AuthDeps, error) {
	appCfg := cfg.Config

	backend := pgident.NewBackend(cfg.DB, pgident.BackendOptions{
		BcryptCost: appCfg.Auth.BcryptCost,
		Logger:     cfg.Logger,
	})

	notifier, err := buildNotifier(appCfg.Notify, cfg.Logger)
	if err != nil {
		return httpx.AuthDeps{}, err
	}

	provider, callbackURL, err := buildSSOProvider(ctx, cfg)
	if err != nil {
		return httpx.AuthDeps{}, err
	}

	return httpx.AuthDeps{
		Backend:           backend,
		Notifier:          notifier,
		SSO:               provider,
		LoginPath:         httpx.PathLogin,
		MinPasswordLength: appCfg.Auth.MinPasswordLength,
		CookieDomain:      appCfg.HTTP.CookieDomain,
		SSOCallbackURL:    callbackURL,
		Logger:            cfg.Logger,
	}, nil
}

//nolint:ireturn // the notifier kind depends on configuration.
func buildNotifier(cfg config.NotifyConfig, logger *slog.Logger) (ports.Notifier, error) {
	if cfg.WebhookURL == "" {
		return notify.NewSlogNotifier(logger), nil
	}
	webhook, err := notify.NewWebhookNotifier(notify.WebhookConfig{
		URL:        cfg.WebhookURL,
		Channel:    cfg.Channel,
		Username:   cfg.Username,
		RetryLimit: cfg.RetryLimit,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build webhook notifier: %w", err)
	}
	return webhook, nil
}

//nolint:ireturn // the provider kind depends on the auth mode.
func buildSSOProvider(ctx context.Context, cfg AuthDepsConfig) (ports.SSOProvider, string, error) {
	appCfg := cfg.Config

	switch appCfg.Auth.Mode {
	case config.AuthModeMock:
		provider, err := devsso.NewProvider(devsso.Config{
			UserID:   appCfg.Auth.DevAuth.UserID,
			FullName: appCfg.Auth.DevAuth.FullName,
			Email:    appCfg.Auth.DevAuth.Email,
			Role:     appCfg.Auth.DevAuth.Role,
		})
		if err != nil {
			return nil, "", fmt.Errorf("build dev sso provider: %w", err)
		}
		return provider, ssoCallbackURL(appCfg), nil

	case config.AuthModeSSO:
		sso := appCfg.Auth.SSO
		if sso.DiscoveryURL == "" || sso.ClientID == "" || sso.ClientSecret == "" {
			return nil, "", fmt.Errorf(
				"sso auth mode requires SSO_DISCOVERY_URL, SSO_CLIENT_ID, and SSO_CLIENT_SECRET")
		}
		provider, err := ssoauth.NewProvider(ctx, ssoauth.ProviderConfig{
			ClientID:     sso.ClientID,
			ClientSecret: sso.ClientSecret,
			RedirectURL:  ssoCallbackURL(appCfg),
			Scope:        sso.Scope,
			DiscoveryURL: sso.DiscoveryURL,
			Roles: authroles.StaticRoleMapper{
				PlacementGroups: sso.PlacementGroups,
				AlumniGroups:    sso.AlumniGroups,
				StudentGroups:   sso.StudentGroups,
			},
		})
		if err != nil {
			return nil, "", fmt.Errorf("build sso provider: %w", err)
		}
		return provider, ssoCallbackURL(appCfg), nil

	default:
		// Password-only deployments expose no SSO endpoints.
		return nil, "", nil
	}
}

func ssoCallbackURL(cfg *config.AppConfig) string {
	if cfg.Auth.SSO.RedirectURL != "" {
		return cfg.Auth.SSO.RedirectURL
	}
	return strings.TrimRight(cfg.HTTP.BaseURL, "/") + "/auth/sso/callback"
}
