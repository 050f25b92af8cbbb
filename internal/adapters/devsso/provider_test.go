package devsso

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/ports"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "d@e.v", Role: "student"})
	assert.Error(t, err, "missing user ID")

	_, err = NewProvider(Config{UserID: "u", Role: "student"})
	assert.Error(t, err, "missing email")

	_, err = NewProvider(Config{UserID: "u", Email: "d@e.v", Role: "dean"})
	assert.Error(t, err, "role outside the closed set")
}

func TestProvider_BeginReturnsLocalCallback(t *testing.T) {
	p, err := NewProvider(Config{UserID: "u", Email: "d@e.v", Role: "placement"})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.SSOBeginInput{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authURL, "/auth/sso/callback?code=dev&state="))
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)
}

func TestProvider_ExchangeReturnsConfiguredIdentity(t *testing.T) {
	p, err := NewProvider(Config{UserID: "u", FullName: "Dev Officer", Email: "d@e.v", Role: "placement"})
	require.NoError(t, err)

	identity, err := p.Exchange(context.Background(), ports.SSOExchangeInput{Code: "dev"})
	require.NoError(t, err)
	assert.Equal(t, "u", identity.UserID)
	assert.Equal(t, domainauth.RolePlacement, identity.Role)
	assert.NoError(t, identity.Validate())
}
