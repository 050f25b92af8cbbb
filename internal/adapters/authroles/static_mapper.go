package authroles

import (
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

// StaticRoleMapper maps campus directory affiliations to portal roles by
// simple string membership rules. Placement staff wins over alumni wins
// over student when an account carries several affiliations.
type StaticRoleMapper struct {
	PlacementGroups []string
	AlumniGroups    []string
	StudentGroups   []string
}

// Map returns the portal role for a set of affiliations. The second return
// is false when no affiliation maps to a known role; such accounts are
// rejected rather than admitted with a guessed role.
func (m StaticRoleMapper) Map(affiliations []string) (domainauth.Role, bool) {
	if contains(affiliations, m.PlacementGroups) {
		return domainauth.RolePlacement, true
	}
	if contains(affiliations, m.AlumniGroups) {
		return domainauth.RoleAlumni, true
	}
	if contains(affiliations, m.StudentGroups) {
		return domainauth.RoleStudent, true
	}
	return "", false
}

func contains(affiliations, groups []string) bool {
	for _, a := range affiliations {
		for _, g := range groups {
			if g != "" && a == g {
				return true
			}
		}
	}
	return false
}
