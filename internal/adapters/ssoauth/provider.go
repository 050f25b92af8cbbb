// Package ssoauth implements the campus single-sign-on provider on top of
// OIDC/OAuth2.
package ssoauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/placementhub/portal-api/internal/adapters/authroles"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
)

// Provider implements ports.SSOProvider against the campus OIDC identity
// provider.
type Provider struct {
	config     *oauth2.Config
	roles      authroles.StaticRoleMapper
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

var _ ports.SSOProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the SSO provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	Roles        authroles.StaticRoleMapper
	HTTPClient   *http.Client
}

// NewProvider creates an SSO provider. It performs one OIDC discovery
// fetch up front.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		roles:      config.Roles,
		httpClient: httpClient,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Begin starts the flow with a fresh state and nonce pair.
func (p *Provider) Begin(_ context.Context, in ports.SSOBeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// idTokenClaims is the claim shape the campus IdP emits. Affiliations carry
// the directory groups the role mapping runs over.
type idTokenClaims struct {
	Sub          string   `json:"sub"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Picture      string   `json:"picture"`
	Affiliations []string `json:"affiliations"`
	Nonce        string   `json:"nonce"`
}

// userInfoClaims mirrors idTokenClaims for the userinfo endpoint.
type userInfoClaims struct {
	Sub          string   `json:"sub"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Picture      string   `json:"picture"`
	Affiliations []string `json:"affiliations"`
}

// Exchange completes the flow: code for token, verified ID token claims,
// userinfo fill for gaps, then affiliation-to-role mapping. An account with
// no mappable affiliation is rejected.
func (p *Provider) Exchange(ctx context.Context, in ports.SSOExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.verifiedClaims(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}

	if claims.Email == "" || claims.Sub == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &claims); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("fetch user info: %w", fillErr)
		}
	}

	role, ok := p.roles.Map(claims.Affiliations)
	if !ok {
		return domainauth.Identity{}, apperrors.Auth("account has no placement portal affiliation")
	}

	return domainauth.Identity{
		UserID:    claims.Sub,
		FullName:  claims.Name,
		Email:     claims.Email,
		Role:      role,
		AvatarURL: claims.Picture,
	}, nil
}

func (p *Provider) verifiedClaims(
	ctx context.Context,
	token *oauth2.Token,
	expectedNonce string,
) (idTokenClaims, error) {
	var claims idTokenClaims

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return claims, errors.New("missing id_token in token response")
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return claims, fmt.Errorf("verify id_token: %w", err)
	}
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return claims, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if claims.Nonce != expectedNonce {
		return claims, errors.New("invalid nonce")
	}
	return claims, nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, claims *idTokenClaims) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return err
	}
	var info userInfoClaims
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	if claims.Sub == "" {
		claims.Sub = info.Sub
	}
	if claims.Name == "" {
		claims.Name = info.Name
	}
	if claims.Email == "" {
		claims.Email = info.Email
	}
	if claims.Picture == "" {
		claims.Picture = info.Picture
	}
	if len(claims.Affiliations) == 0 {
		claims.Affiliations = info.Affiliations
	}
	return nil
}

// randomString returns a cryptographically secure URL-safe string of
// exactly length characters.
func randomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
