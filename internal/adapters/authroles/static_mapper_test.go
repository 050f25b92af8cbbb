package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{
		PlacementGroups: []string{"placement-cell"},
		AlumniGroups:    []string{"alumni-network"},
		StudentGroups:   []string{"enrolled-students"},
	}

	tests := []struct {
		name         string
		affiliations []string
		role         domainauth.Role
		ok           bool
	}{
		{name: "student", affiliations: []string{"enrolled-students"}, role: domainauth.RoleStudent, ok: true},
		{name: "placement", affiliations: []string{"placement-cell"}, role: domainauth.RolePlacement, ok: true},
		{name: "alumni", affiliations: []string{"alumni-network"}, role: domainauth.RoleAlumni, ok: true},
		{name: "placement wins over alumni", affiliations: []string{"alumni-network", "placement-cell"}, role: domainauth.RolePlacement, ok: true},
		{name: "alumni wins over student", affiliations: []string{"enrolled-students", "alumni-network"}, role: domainauth.RoleAlumni, ok: true},
		{name: "no match", affiliations: []string{"faculty"}, ok: false},
		{name: "empty", affiliations: nil, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, ok := mapper.Map(tc.affiliations)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.role, role)
			}
		})
	}
}

func TestStaticRoleMapper_EmptyGroupNamesNeverMatch(t *testing.T) {
	mapper := StaticRoleMapper{StudentGroups: []string{""}}

	_, ok := mapper.Map([]string{""})
	assert.False(t, ok)
}
