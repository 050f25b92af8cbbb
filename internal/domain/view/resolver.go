package view

// Package view selects the top-level dashboard variant for a role.

import (
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

// Variant is the closed set of top-level dashboard renderings.
type Variant int

const (
	// ViewInvalid is returned for a missing or unrecognized role.
	// Callers render an error state; there is no silent default.
	ViewInvalid Variant = iota
	ViewStudent
	ViewPlacement
	ViewAlumni
)

// String returns the template name associated with the variant.
func (v Variant) String() string {
	switch v {
	case ViewStudent:
		return "dashboard_student"
	case ViewPlacement:
		return "dashboard_placement"
	case ViewAlumni:
		return "dashboard_alumni"
	case ViewInvalid:
		return "dashboard_invalid"
	default:
		return "dashboard_invalid"
	}
}

// Resolve maps a role to its dashboard variant. Pure, no side effects.
// The switch is exhaustive over the closed role set; adding a role without
// extending it falls through to ViewInvalid, which the resolver tests pin.
func Resolve(role domainauth.Role) Variant {
	switch role {
	case domainauth.RoleStudent:
		return ViewStudent
	case domainauth.RolePlacement:
		return ViewPlacement
	case domainauth.RoleAlumni:
		return ViewAlumni
	default:
		return ViewInvalid
	}
}
