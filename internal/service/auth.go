package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/session"
)

// DefaultMinPasswordLength applies when the options leave the policy zero.
const DefaultMinPasswordLength = 8

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  ports.IdentityBackend
	Sessions *session.Store
	Router   ports.Router
	Notifier ports.Notifier

	// LoginPath is where Logout navigates to. Defaults to "/login".
	LoginPath string
	// MinPasswordLength is the signup password policy. Defaults to 8.
	MinPasswordLength int
	Logger            *slog.Logger
}

// AuthService is the only writer of the session store. It performs
// credential verification and account creation against the identity
// backend and drives session transitions. All errors are terminal here:
// nothing propagates past this boundary to the route guard, which only
// ever observes a consistent session snapshot.
type AuthService struct {
	backend  ports.IdentityBackend
	sessions *session.Store
	router   ports.Router
	notifier ports.Notifier

	loginPath   string
	minPassword int
	logger      *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	minPassword := opts.MinPasswordLength
	if minPassword <= 0 {
		minPassword = DefaultMinPasswordLength
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = ports.NotifierFunc(nil)
	}
	return &AuthService{
		backend:     opts.Backend,
		sessions:    opts.Sessions,
		router:      opts.Router,
		notifier:    notifier,
		loginPath:   loginPath,
		minPassword: minPassword,
		logger:      logger,
	}
}

// Login verifies credentials against the backend and, on success, installs
// the returned identity into the session store.
//
// The session generation is captured before the backend call; if a newer
// Set (another login, or a logout) lands while this call is suspended, the
// result is discarded and a StaleResponse error returned. Stale results
// are not user-visible failures; callers drop them without notifying.
func (s *AuthService) Login(ctx context.Context, email, password string) (domainauth.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.sessions.Get(), apperrors.ValidationField("email", "email is required")
	}
	if password == "" {
		return s.sessions.Get(), apperrors.ValidationField("password", "password is required")
	}

	gen := s.sessions.Generation()

	identity, err := s.backend.VerifyCredentials(ctx, email, password)
	if err != nil {
		s.notifier.Notify(ctx, ports.NotifyError, "Login failed. Check your credentials and try again.")
		if apperrors.IsAuth(err) {
			return s.sessions.Get(), err
		}
		return s.sessions.Get(), apperrors.Wrap(err, apperrors.ErrCodeAuth, "credential verification failed")
	}
	if validateErr := identity.Validate(); validateErr != nil {
		s.notifier.Notify(ctx, ports.NotifyError, "Login failed. Check your credentials and try again.")
		return s.sessions.Get(), apperrors.Wrap(validateErr, apperrors.ErrCodeAuth, "backend returned an invalid identity")
	}

	sess, err := s.sessions.SetIfGeneration(ctx, &identity, gen)
	if err != nil {
		s.logger.DebugContext(ctx, "login result discarded", "user_id", identity.UserID, "error", err)
		return sess, err
	}

	s.notifier.Notify(ctx, ports.NotifySuccess, "Welcome back, "+identity.FullName+"!")
	return sess, nil
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Signup validates the input and creates the backend account together with
// its role-profile record. It never authenticates the new account; the
// caller logs in afterwards.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if fullName == "" {
		return apperrors.ValidationField("full_name", "full name is required")
	}
	if len(in.Password) < s.minPassword {
		return apperrors.ValidationField("password",
			fmt.Sprintf("password must be at least %d characters", s.minPassword))
	}
	role, err := domainauth.ParseRole(in.Role)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "role must be student, placement, or alumni")
	}

	profile := ports.Profile{FullName: fullName, Role: role}
	if err := s.backend.CreateAccount(ctx, email, in.Password, profile); err != nil {
		s.notifier.Notify(ctx, ports.NotifyError, "Signup failed.")
		if apperrors.IsConflict(err) || apperrors.IsAuth(err) {
			return apperrors.Wrap(err, apperrors.ErrCodeAuth, "account creation rejected")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeAuth, "account creation failed")
	}

	s.notifier.Notify(ctx, ports.NotifySuccess, "Account created. Please sign in.")
	return nil
}

// Logout clears the session unconditionally and navigates to the login
// destination. Backend sign-out is best effort; local clearing never
// depends on it. Calling Logout on an empty session is a harmless no-op
// apart from the navigation.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Set(ctx, nil)
	s.backend.SignOut(ctx)
	if s.router != nil {
		s.router.Redirect(s.loginPath, ports.RedirectOptions{Replace: true})
	}
}
