package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"strconv"
	"sync"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityBackend = (*MockIdentityBackend)(nil)
	_ ports.Router          = (*FakeRouter)(nil)
	_ ports.Notifier        = (*RecordingNotifier)(nil)
	_ ports.SSOProvider     = (*MockSSOProvider)(nil)
)

// MockIdentityBackend simulates the identity backend with function hooks
// and a default in-memory account table.
type MockIdentityBackend struct {
	VerifyFunc  func(ctx context.Context, email, password string) (domainauth.Identity, error)
	CreateFunc  func(ctx context.Context, email, password string, profile ports.Profile) error
	SignOutFunc func(ctx context.Context)

	mu       sync.Mutex
	accounts map[string]mockAccount
	signOuts int
}

type mockAccount struct {
	password string
	identity domainauth.Identity
}

// NewMockIdentityBackend creates an empty mock backend.
func NewMockIdentityBackend() *MockIdentityBackend {
	return &MockIdentityBackend{accounts: make(map[string]mockAccount)}
}

// Seed registers an account the mock will verify successfully.
func (m *MockIdentityBackend) Seed(email, password string, identity domainauth.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[email] = mockAccount{password: password, identity: identity}
}

func (m *MockIdentityBackend) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (domainauth.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, password)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[email]
	if !ok || acct.password != password {
		return domainauth.Identity{}, apperrors.Auth("invalid credentials")
	}
	return acct.identity, nil
}

func (m *MockIdentityBackend) CreateAccount(
	ctx context.Context,
	email, password string,
	profile ports.Profile,
) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, email, password, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[email]; exists {
		return apperrors.Conflict("account already exists")
	}
	m.accounts[email] = mockAccount{
		password: password,
		identity: domainauth.Identity{
			UserID:   "mock-" + email,
			FullName: profile.FullName,
			Email:    email,
			Role:     profile.Role,
		},
	}
	return nil
}

func (m *MockIdentityBackend) SignOut(ctx context.Context) {
	if m.SignOutFunc != nil {
		m.SignOutFunc(ctx)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signOuts++
}

// SignOutCount reports how many times SignOut ran.
func (m *MockIdentityBackend) SignOutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signOuts
}

// FakeRouter records redirects for assertions.
type FakeRouter struct {
	mu        sync.Mutex
	current   string
	Redirects []RecordedRedirect
}

// RecordedRedirect is one captured navigation.
type RecordedRedirect struct {
	Path string
	Opts ports.RedirectOptions
}

// NewFakeRouter creates a router parked at the given path.
func NewFakeRouter(current string) *FakeRouter {
	return &FakeRouter{current: current}
}

func (r *FakeRouter) Redirect(path string, opts ports.RedirectOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
	r.Redirects = append(r.Redirects, RecordedRedirect{Path: path, Opts: opts})
}

func (r *FakeRouter) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Last returns the most recent redirect, or a zero value when none happened.
func (r *FakeRouter) Last() RecordedRedirect {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Redirects) == 0 {
		return RecordedRedirect{}
	}
	return r.Redirects[len(r.Redirects)-1]
}

// RecordingNotifier captures notifications for assertions.
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []RecordedNotification
}

// RecordedNotification is one captured toast.
type RecordedNotification struct {
	Kind    ports.NotifyKind
	Message string
}

func (n *RecordingNotifier) Notify(_ context.Context, kind ports.NotifyKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, RecordedNotification{Kind: kind, Message: message})
}

// Kinds returns the sequence of notification kinds seen so far.
func (n *RecordingNotifier) Kinds() []ports.NotifyKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]ports.NotifyKind, len(n.Notifications))
	for i, rec := range n.Notifications {
		kinds[i] = rec.Kind
	}
	return kinds
}

// MockSSOProvider simulates a campus SSO provider with deterministic
// state/nonce handling.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.SSOBeginInput) (string, string, string, error)
	ExchangeFunc func(ctx context.Context, in ports.SSOExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL: "https://sso.campus.edu/auth",
		DefaultUser: domainauth.Identity{
			UserID:   "sso-user-1",
			FullName: "Campus Officer",
			Email:    "officer@campus.edu",
			Role:     domainauth.RolePlacement,
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.SSOBeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()
	return m.AuthURL, "state-" + strconv.Itoa(n), "nonce-" + strconv.Itoa(n), nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.SSOExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultUser, nil
}
