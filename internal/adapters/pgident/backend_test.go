package pgident

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/testutil"
)

func setupBackend(t *testing.T) (*Backend, *sql.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	// Minimum bcrypt cost keeps the test fast.
	return NewBackend(db, BackendOptions{BcryptCost: 4}), db
}

func TestBackend_CreateAndVerify(t *testing.T) {
	backend, _ := setupBackend(t)
	ctx := context.Background()

	err := backend.CreateAccount(ctx, "asha@campus.edu", "correct horse", ports.Profile{
		FullName: "Asha Menon",
		Role:     domainauth.RoleAlumni,
	})
	require.NoError(t, err)

	identity, err := backend.VerifyCredentials(ctx, "asha@campus.edu", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, identity.UserID)
	assert.Equal(t, "Asha Menon", identity.FullName)
	assert.Equal(t, domainauth.RoleAlumni, identity.Role)
}

func TestBackend_VerifyIsCaseInsensitiveOnEmail(t *testing.T) {
	backend, _ := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.CreateAccount(ctx, "Ravi@Campus.edu", "sturdy-password", ports.Profile{
		FullName: "Ravi Kumar",
		Role:     domainauth.RoleStudent,
	}))

	identity, err := backend.VerifyCredentials(ctx, "ravi@campus.edu", "sturdy-password")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", identity.FullName)
}

func TestBackend_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	backend, _ := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.CreateAccount(ctx, "asha@campus.edu", "correct horse", ports.Profile{
		FullName: "Asha Menon",
		Role:     domainauth.RoleAlumni,
	}))

	_, wrongPass := backend.VerifyCredentials(ctx, "asha@campus.edu", "nope")
	_, unknown := backend.VerifyCredentials(ctx, "ghost@campus.edu", "nope")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.True(t, apperrors.IsAuth(wrongPass))
	assert.True(t, apperrors.IsAuth(unknown))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestBackend_DuplicateEmailConflicts(t *testing.T) {
	backend, _ := setupBackend(t)
	ctx := context.Background()

	profile := ports.Profile{FullName: "Asha Menon", Role: domainauth.RoleAlumni}
	require.NoError(t, backend.CreateAccount(ctx, "asha@campus.edu", "correct horse", profile))

	err := backend.CreateAccount(ctx, "asha@campus.edu", "other password", profile)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestBackend_ProfileRowWrittenWithAccount(t *testing.T) {
	backend, db := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.CreateAccount(ctx, "meera@campus.edu", "sturdy-password", ports.Profile{
		FullName: "Meera Pillai",
		Role:     domainauth.RolePlacement,
	}))

	var role string
	err := db.QueryRowContext(ctx,
		`SELECT p.role FROM profiles p JOIN users u ON u.id = p.user_id WHERE u.email = $1`,
		"meera@campus.edu").Scan(&role)
	require.NoError(t, err)
	assert.Equal(t, "placement", role)
}
