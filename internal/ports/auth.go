package ports

// Package ports defines interfaces (hexagonal ports) for the gating core's
// collaborators. Implementations live in internal/adapters; orchestration
// in internal/session and internal/service.

import (
	"context"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/domain/routing"
)

// Profile is the backend's view of an account at creation time.
type Profile struct {
	FullName  string
	Role      domainauth.Role
	AvatarURL string
}

// IdentityBackend performs credential verification and account creation
// against the external identity store. The core depends only on this
// narrow contract, not on the backend's transport or schema.
type IdentityBackend interface {
	// VerifyCredentials checks an email/password pair and returns the
	// account's identity on success.
	VerifyCredentials(ctx context.Context, email, password string) (domainauth.Identity, error)

	// CreateAccount registers a new account with its role profile.
	// It does not authenticate the new account.
	CreateAccount(ctx context.Context, email, password string, profile Profile) error

	// SignOut is a best-effort backend sign-out. Fire and forget.
	SignOut(ctx context.Context)
}

// IdentityVault is the durable storage a session survives reloads in.
// Payloads are opaque bytes; the session store owns their shape.
type IdentityVault interface {
	ReadIdentity(ctx context.Context) ([]byte, error)
	WriteIdentity(ctx context.Context, payload []byte) error
	ClearIdentity(ctx context.Context) error
}

// ErrIdentityAbsent is returned by ReadIdentity when nothing is stored.
// It is a normal outcome, not a failure.
type identityAbsentError struct{}

func (identityAbsentError) Error() string { return "no identity stored" }

// ErrIdentityAbsent is the sentinel for an empty vault slot.
var ErrIdentityAbsent error = identityAbsentError{}

// RedirectOptions carries router redirect modifiers.
type RedirectOptions struct {
	Replace bool
	Intent  *routing.NavigationIntent
}

// Router abstracts client-side navigation.
type Router interface {
	Redirect(path string, opts RedirectOptions)
	CurrentPath() string
}

// NotifyKind classifies a user-visible notification.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier is the toast/notification surface. Fire and forget; the core
// never consumes a return value.
type Notifier interface {
	Notify(ctx context.Context, kind NotifyKind, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, kind NotifyKind, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, kind NotifyKind, message string) {
	if f != nil {
		f(ctx, kind, message)
	}
}

// SSOBeginInput carries inputs for initiating a campus SSO flow.
type SSOBeginInput struct {
	RedirectURL string
}

// SSOExchangeInput groups parameters for the SSO code/token exchange.
type SSOExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes a single-sign-on flow against the
// campus identity provider. Optional; only wired when SSO mode is enabled.
type SSOProvider interface {
	// Begin starts the flow and returns the provider auth URL, an opaque
	// state, and a nonce.
	Begin(ctx context.Context, in SSOBeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the flow, verifying state and nonce, and returns
	// the authenticated identity.
	Exchange(ctx context.Context, in SSOExchangeInput) (domainauth.Identity, error)
}
