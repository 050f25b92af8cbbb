// Package devsso provides a config-driven SSO provider for local
// development. It short-circuits the OAuth flow by redirecting straight
// back to our own callback.
package devsso

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/ports"
)

// Config controls the dev SSO provider behavior.
type Config struct {
	UserID   string
	FullName string
	Email    string
	Role     string
}

// Provider implements ports.SSOProvider for local development. Exchange
// ignores the code and returns the configured identity.
type Provider struct {
	identity domainauth.Identity
}

var _ ports.SSOProvider = (*Provider)(nil)

// NewProvider constructs a dev SSO provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev sso: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev sso: Email is required")
	}
	role, err := domainauth.ParseRole(cfg.Role)
	if err != nil {
		return nil, fmt.Errorf("dev sso: %w", err)
	}
	fullName := cfg.FullName
	if fullName == "" {
		fullName = "Dev User"
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:   cfg.UserID,
			FullName: fullName,
			Email:    cfg.Email,
			Role:     role,
		},
	}, nil
}

// Begin returns a local callback URL with generated state and nonce. The
// callback handler expects GET /auth/sso/callback?code=...&state=...
func (p *Provider) Begin(_ context.Context, _ ports.SSOBeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := "/auth/sso/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the code and returns the configured identity. State and
// nonce validation stays with the handler.
func (p *Provider) Exchange(_ context.Context, _ ports.SSOExchangeInput) (domainauth.Identity, error) {
	return p.identity, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
