package service

import (
	"context"
	"log/slog"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/session"
)

// SSOServiceOptions groups dependencies for SSOService.
type SSOServiceOptions struct {
	Provider ports.SSOProvider
	Sessions *session.Store
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// SSOService orchestrates the campus single-sign-on flow. It shares the
// session store with AuthService so an SSO login and a password login are
// indistinguishable to the rest of the system.
type SSOService struct {
	provider ports.SSOProvider
	sessions *session.Store
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewSSOService constructs a new SSOService.
func NewSSOService(opts SSOServiceOptions) *SSOService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = ports.NotifierFunc(nil)
	}
	return &SSOService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		notifier: notifier,
		logger:   logger,
	}
}

// BeginSSOResult contains the result of beginning an SSO flow.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates the flow and returns the provider auth URL with state
// and nonce. The caller stashes state and nonce for the callback leg.
func (s *SSOService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if redirectURL == "" {
		return nil, apperrors.ValidationField("redirect_url", "redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.SSOBeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuth, "begin sso flow")
	}

	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOInput groups parameters for completing an SSO flow.
type CompleteSSOInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO exchanges the authorization code for an identity and installs
// it into the session store. The same generation check as password login
// applies: a logout or newer login while the exchange was in flight wins,
// and the exchanged identity is dropped with a StaleResponse error.
func (s *SSOService) CompleteSSO(ctx context.Context, in CompleteSSOInput) (domainauth.Session, error) {
	if in.Code == "" {
		return s.sessions.Get(), apperrors.ValidationField("code", "authorization code is required")
	}
	if in.State == "" {
		return s.sessions.Get(), apperrors.ValidationField("state", "state parameter is required")
	}
	if in.Nonce == "" {
		return s.sessions.Get(), apperrors.ValidationField("nonce", "nonce parameter is required")
	}

	gen := s.sessions.Generation()

	identity, err := s.provider.Exchange(ctx, ports.SSOExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		s.notifier.Notify(ctx, ports.NotifyError, "Campus sign-in failed.")
		return s.sessions.Get(), apperrors.Wrap(err, apperrors.ErrCodeAuth, "exchange authorization code")
	}
	if validateErr := identity.Validate(); validateErr != nil {
		s.notifier.Notify(ctx, ports.NotifyError, "Campus sign-in failed.")
		return s.sessions.Get(), apperrors.Wrap(validateErr, apperrors.ErrCodeAuth, "provider returned an invalid identity")
	}

	sess, err := s.sessions.SetIfGeneration(ctx, &identity, gen)
	if err != nil {
		s.logger.DebugContext(ctx, "sso result discarded", "user_id", identity.UserID, "error", err)
		return sess, err
	}

	s.notifier.Notify(ctx, ports.NotifySuccess, "Welcome back, "+identity.FullName+"!")
	return sess, nil
}
