package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/placementhub/portal-api/internal/adapters/memvault"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/mocks"
	mocksauth "github.com/placementhub/portal-api/internal/mocks/auth"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/session"
)

type authFixture struct {
	svc      *AuthService
	backend  *mocksauth.MockIdentityBackend
	sessions *session.Store
	router   *mocksauth.FakeRouter
	notifier *mocksauth.RecordingNotifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	backend := mocksauth.NewMockIdentityBackend()
	sessions := session.NewStore(memvault.New().ForClient("client-1"), nil)
	sessions.Restore(context.Background())
	router := mocksauth.NewFakeRouter("/login")
	notifier := &mocksauth.RecordingNotifier{}

	svc := NewAuthService(AuthServiceOptions{
		Backend:  backend,
		Sessions: sessions,
		Router:   router,
		Notifier: notifier,
	})
	return &authFixture{
		svc:      svc,
		backend:  backend,
		sessions: sessions,
		router:   router,
		notifier: notifier,
	}
}

func seededIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:   "u-7",
		FullName: "Asha Menon",
		Email:    "asha@campus.edu",
		Role:     domainauth.RoleAlumni,
	}
}

func TestAuthService_LoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())

	sess, err := f.svc.Login(context.Background(), "asha@campus.edu", "hunter22")

	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated)
	assert.Equal(t, "u-7", sess.Identity.UserID)
	assert.Equal(t, domainauth.RoleAlumni, sess.Role())

	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, ports.NotifySuccess, f.notifier.Notifications[0].Kind)
	assert.Contains(t, f.notifier.Notifications[0].Message, "Asha Menon")
}

func TestAuthService_LoginTrimsEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())

	sess, err := f.svc.Login(context.Background(), "  asha@campus.edu  ", "hunter22")

	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated)
}

func TestAuthService_LoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{name: "missing email", email: "", password: "x", field: "email"},
		{name: "blank email", email: "   ", password: "x", field: "email"},
		{name: "missing password", email: "a@b.c", password: "", field: "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(t)

			sess, err := f.svc.Login(context.Background(), tc.email, tc.password)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
			assert.False(t, sess.IsAuthenticated)
			assert.Empty(t, f.notifier.Notifications, "validation failures do not toast")
		})
	}
}

func TestAuthService_LoginBadCredentialsLeavesSessionUntouched(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())

	sess, err := f.svc.Login(context.Background(), "asha@campus.edu", "wrong")

	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
	assert.False(t, sess.IsAuthenticated)
	assert.True(t, f.sessions.Get().Empty())

	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, ports.NotifyError, f.notifier.Notifications[0].Kind)
}

func TestAuthService_LoginFailureDoesNotClearExistingSession(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())

	_, err := f.svc.Login(context.Background(), "asha@campus.edu", "hunter22")
	require.NoError(t, err)

	// A failed re-login attempt must not log the user out.
	_, err = f.svc.Login(context.Background(), "asha@campus.edu", "wrong")
	require.Error(t, err)
	assert.True(t, f.sessions.Get().IsAuthenticated)
}

func TestAuthService_LoginRejectsInvalidBackendIdentity(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.VerifyFunc = func(context.Context, string, string) (domainauth.Identity, error) {
		return domainauth.Identity{UserID: "u-1", Role: domainauth.Role("superadmin")}, nil
	}

	sess, err := f.svc.Login(context.Background(), "a@b.c", "pw")

	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
	assert.False(t, sess.IsAuthenticated)
}

// A login whose backend call is still in flight when a logout lands must
// be discarded: the final session stays empty and no success toast fires.
func TestAuthService_StaleLoginDiscardedAfterLogout(t *testing.T) {
	f := newAuthFixture(t)

	verifying := make(chan struct{})
	release := make(chan struct{})
	f.backend.VerifyFunc = func(context.Context, string, string) (domainauth.Identity, error) {
		close(verifying)
		<-release
		return seededIdentity(), nil
	}

	type loginResult struct {
		sess domainauth.Session
		err  error
	}
	done := make(chan loginResult, 1)
	go func() {
		sess, err := f.svc.Login(context.Background(), "asha@campus.edu", "hunter22")
		done <- loginResult{sess: sess, err: err}
	}()

	<-verifying
	f.svc.Logout(context.Background())
	close(release)
	res := <-done

	require.Error(t, res.err)
	assert.True(t, apperrors.IsStaleResponse(res.err))
	assert.True(t, res.sess.Empty(), "discarded login must not resurrect the session")
	assert.True(t, f.sessions.Get().Empty())
	for _, n := range f.notifier.Notifications {
		assert.NotEqual(t, ports.NotifySuccess, n.Kind, "stale login must not announce success")
	}
}

func TestAuthService_StaleLoginLosesToNewerLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())

	slow := domainauth.Identity{UserID: "u-old", FullName: "Old", Email: "old@campus.edu", Role: domainauth.RoleStudent}
	verifying := make(chan struct{})
	release := make(chan struct{})
	f.backend.VerifyFunc = func(context.Context, string, string) (domainauth.Identity, error) {
		close(verifying)
		<-release
		return slow, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Login(context.Background(), "old@campus.edu", "pw")
		done <- err
	}()
	<-verifying

	// A second login completes while the first is suspended.
	f.backend.VerifyFunc = nil
	_, err := f.svc.Login(context.Background(), "asha@campus.edu", "hunter22")
	require.NoError(t, err)

	close(release)
	staleErr := <-done

	require.Error(t, staleErr)
	assert.True(t, apperrors.IsStaleResponse(staleErr))
	assert.Equal(t, "u-7", f.sessions.Get().Identity.UserID, "newer login wins")
}

func TestAuthService_SignupSuccessDoesNotAuthenticate(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Signup(context.Background(), SignupInput{
		Email:    "new@campus.edu",
		Password: "longenough",
		FullName: "New Student",
		Role:     "student",
	})

	require.NoError(t, err)
	assert.True(t, f.sessions.Get().Empty(), "signup never logs the account in")

	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, ports.NotifySuccess, f.notifier.Notifications[0].Kind)

	// The account is usable afterwards.
	_, err = f.svc.Login(context.Background(), "new@campus.edu", "longenough")
	assert.NoError(t, err)
}

func TestAuthService_SignupValidation(t *testing.T) {
	valid := SignupInput{
		Email:    "new@campus.edu",
		Password: "longenough",
		FullName: "New Student",
		Role:     "student",
	}
	tests := []struct {
		name   string
		mutate func(in *SignupInput)
	}{
		{name: "missing email", mutate: func(in *SignupInput) { in.Email = " " }},
		{name: "missing full name", mutate: func(in *SignupInput) { in.FullName = "" }},
		{name: "short password", mutate: func(in *SignupInput) { in.Password = "short" }},
		{name: "unknown role", mutate: func(in *SignupInput) { in.Role = "professor" }},
		{name: "empty role", mutate: func(in *SignupInput) { in.Role = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(t)
			in := valid
			tc.mutate(&in)

			err := f.svc.Signup(context.Background(), in)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Empty(t, f.notifier.Notifications)
		})
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("taken@campus.edu", "pw", seededIdentity())

	err := f.svc.Signup(context.Background(), SignupInput{
		Email:    "taken@campus.edu",
		Password: "longenough",
		FullName: "Imposter",
		Role:     "alumni",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, ports.NotifyError, f.notifier.Notifications[0].Kind)
}

func TestAuthService_SignupPasswordPolicyIsConfigurable(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewAuthService(AuthServiceOptions{
		Backend:           f.backend,
		Sessions:          f.sessions,
		Router:            f.router,
		Notifier:          f.notifier,
		MinPasswordLength: 12,
	})

	err := svc.Signup(context.Background(), SignupInput{
		Email:    "new@campus.edu",
		Password: "elevenchars",
		FullName: "New Student",
		Role:     "student",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "password", apperrors.GetField(err))
}

func TestAuthService_LogoutClearsAndRedirects(t *testing.T) {
	f := newAuthFixture(t)
	f.backend.Seed("asha@campus.edu", "hunter22", seededIdentity())
	_, err := f.svc.Login(context.Background(), "asha@campus.edu", "hunter22")
	require.NoError(t, err)

	f.svc.Logout(context.Background())

	assert.True(t, f.sessions.Get().Empty())
	assert.Equal(t, 1, f.backend.SignOutCount())

	last := f.router.Last()
	assert.Equal(t, "/login", last.Path)
	assert.True(t, last.Opts.Replace)
}

func TestAuthService_LogoutWithoutSessionIsHarmless(t *testing.T) {
	f := newAuthFixture(t)

	f.svc.Logout(context.Background())
	f.svc.Logout(context.Background())

	assert.True(t, f.sessions.Get().Empty())
	assert.Equal(t, 2, f.backend.SignOutCount())
	assert.Equal(t, "/login", f.router.CurrentPath())
}

func TestAuthService_LoginWithGeneratedMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockIdentityBackend(ctrl)
	sessions := session.NewStore(memvault.New().ForClient("client-1"), nil)
	sessions.Restore(context.Background())

	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: sessions})

	backend.EXPECT().
		VerifyCredentials(gomock.Any(), "asha@campus.edu", "hunter22").
		Return(seededIdentity(), nil)

	sess, err := svc.Login(context.Background(), "asha@campus.edu", "hunter22")

	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, domainauth.RoleAlumni, sess.Role())
}
