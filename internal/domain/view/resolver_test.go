package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

func TestResolve_AllRolesCovered(t *testing.T) {
	// Every role in the closed set must resolve to a non-invalid variant.
	want := map[domainauth.Role]Variant{
		domainauth.RoleStudent:   ViewStudent,
		domainauth.RolePlacement: ViewPlacement,
		domainauth.RoleAlumni:    ViewAlumni,
	}
	assert.Len(t, want, len(domainauth.Roles()))
	for role, variant := range want {
		assert.Equal(t, variant, Resolve(role), "role %s", role)
		assert.NotEqual(t, ViewInvalid, Resolve(role))
	}
}

func TestResolve_InvalidInputs(t *testing.T) {
	assert.Equal(t, ViewInvalid, Resolve(""))
	assert.Equal(t, ViewInvalid, Resolve("admin"))
	assert.Equal(t, ViewInvalid, Resolve("Student"))
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "dashboard_student", ViewStudent.String())
	assert.Equal(t, "dashboard_invalid", ViewInvalid.String())
	assert.Equal(t, "dashboard_invalid", Variant(99).String())
}
