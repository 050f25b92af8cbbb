package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole_ClosedSet(t *testing.T) {
	for _, r := range Roles() {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "admin", "Student", "STUDENT", "officer"} {
		_, err := ParseRole(raw)
		require.Error(t, err, "role %q should be rejected", raw)
		assert.ErrorIs(t, err, ErrUnknownRole)
	}
}

func TestIdentity_Validate(t *testing.T) {
	valid := Identity{UserID: "u-1", FullName: "Asha Rao", Email: "asha@campus.edu", Role: RoleStudent}
	require.NoError(t, valid.Validate())

	noID := valid
	noID.UserID = ""
	assert.Error(t, noID.Validate())

	badRole := valid
	badRole.Role = "superuser"
	err := badRole.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestSession_RoleAndEmpty(t *testing.T) {
	var s Session
	assert.Equal(t, Role(""), s.Role())
	assert.True(t, s.Empty())

	s = Session{
		Identity:        &Identity{UserID: "u-2", Role: RoleAlumni},
		IsAuthenticated: true,
	}
	assert.Equal(t, RoleAlumni, s.Role())
	assert.False(t, s.Empty())

	loading := Session{IsLoading: true}
	assert.False(t, loading.Empty())
}
