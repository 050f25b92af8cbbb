package auth

// Package auth contains domain-level types for identity and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
)

// Role represents a portal authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent   Role = "student"
	RolePlacement Role = "placement"
	RoleAlumni    Role = "alumni"
)

// ErrUnknownRole is returned when a role string is outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Roles returns the closed set of valid roles.
func Roles() []Role {
	return []Role{RoleStudent, RolePlacement, RoleAlumni}
}

// ParseRole validates a raw role string against the closed set.
// Anything outside the set is rejected; callers must not default silently.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent, RolePlacement, RoleAlumni:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// Valid reports whether the role is in the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Identity is the authenticated principal. Immutable once issued.
type Identity struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Validate checks the invariant that a non-null identity always carries a
// role from the closed set and a stable user id.
func (id Identity) Validate() error {
	if id.UserID == "" {
		return errors.New("identity user id is required")
	}
	if !id.Role.Valid() {
		return fmt.Errorf("identity role: %w: %q", ErrUnknownRole, id.Role)
	}
	return nil
}

// Session wraps at most one Identity plus its derived flags.
// Created empty, populated by login or restore, cleared by logout.
type Session struct {
	Identity        *Identity `json:"identity,omitempty"`
	IsAuthenticated bool      `json:"is_authenticated"`
	IsLoading       bool      `json:"is_loading"`
}

// Role returns the session role, or the empty string for anonymous sessions.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Empty reports whether the session carries no identity and is fully resolved.
func (s Session) Empty() bool {
	return s.Identity == nil && !s.IsAuthenticated && !s.IsLoading
}
