package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placementhub/portal-api/config"
	"github.com/placementhub/portal-api/internal/adapters/devsso"
	"github.com/placementhub/portal-api/internal/adapters/notify"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Auth.Mode = config.AuthModePassword
	cfg.Auth.MinPasswordLength = 8
	cfg.Auth.DevAuth = config.DevAuthConfig{
		UserID:   "dev-user",
		FullName: "Dev User",
		Email:    "dev@campus.edu",
		Role:     "student",
	}
	cfg.Vault.Backend = config.VaultBackendMemory
	cfg.HTTP.BaseURL = "http://localhost:8080"
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthDeps_PasswordModeDisablesSSO(t *testing.T) {
	deps, err := BuildAuthDeps(context.Background(), AuthDepsConfig{
		Config: testAppConfig(),
		Logger: testLogger(),
	})
	require.NoError(t, err)

	assert.Nil(t, deps.SSO)
	assert.NotNil(t, deps.Backend)
	assert.IsType(t, &notify.SlogNotifier{}, deps.Notifier)
	assert.Equal(t, 8, deps.MinPasswordLength)
}

func TestBuildAuthDeps_MockModeUsesDevProvider(t *testing.T) {
	cfg := testAppConfig()
	cfg.Auth.Mode = config.AuthModeMock

	deps, err := BuildAuthDeps(context.Background(), AuthDepsConfig{
		Config: cfg,
		Logger: testLogger(),
	})
	require.NoError(t, err)

	assert.IsType(t, &devsso.Provider{}, deps.SSO)
	assert.Equal(t, "http://localhost:8080/auth/sso/callback", deps.SSOCallbackURL)
}

func TestBuildAuthDeps_SSOModeRequiresProviderConfig(t *testing.T) {
	cfg := testAppConfig()
	cfg.Auth.Mode = config.AuthModeSSO

	_, err := BuildAuthDeps(context.Background(), AuthDepsConfig{
		Config: cfg,
		Logger: testLogger(),
	})
	assert.Error(t, err)
}

func TestBuildAuthDeps_WebhookNotifier(t *testing.T) {
	cfg := testAppConfig()
	cfg.Notify.WebhookURL = "https://chat.campus.edu/hooks/abc"

	deps, err := BuildAuthDeps(context.Background(), AuthDepsConfig{
		Config: cfg,
		Logger: testLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &notify.WebhookNotifier{}, deps.Notifier)
}

func TestBuildStoreFactory_MemoryVault(t *testing.T) {
	stores := BuildStoreFactory(AuthDepsConfig{
		Config: testAppConfig(),
		Logger: testLogger(),
	})

	store := stores("client-1")
	require.NotNil(t, store)

	sess := store.Restore(context.Background())
	assert.False(t, sess.IsAuthenticated)
	assert.False(t, sess.IsLoading)

	// The same client identifier resolves to the same vault slot.
	other := stores("client-1")
	require.NotNil(t, other)
}
