package routing

// Package routing holds the route-guard decision point and its static
// role policy. Everything here is pure: no I/O, no clock, no globals.

import (
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

// Default well-known destinations. A Policy may override them.
const (
	DefaultLoginPath        = "/login"
	DefaultUnauthorizedPath = "/unauthorized"
	DefaultDashboardPath    = "/dashboard"
)

// Rule describes the access requirements of one protected destination.
// An empty AllowedRoles set means any authenticated role is permitted;
// it is NOT a deny-all.
type Rule struct {
	RequiresAuth bool
	AllowedRoles []domainauth.Role
}

// Allows reports whether the rule's role set admits the given role.
func (r Rule) Allows(role domainauth.Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Policy is the static destination → access-rule map, fixed at deployment
// time and never mutated at runtime.
type Policy struct {
	rules map[string]Rule

	loginPath        string
	unauthorizedPath string
	dashboardPath    string
}

// PolicyOption customizes a Policy at construction time.
type PolicyOption func(*Policy)

// WithLoginPath overrides the login destination.
func WithLoginPath(path string) PolicyOption {
	return func(p *Policy) { p.loginPath = path }
}

// WithUnauthorizedPath overrides the unauthorized destination.
func WithUnauthorizedPath(path string) PolicyOption {
	return func(p *Policy) { p.unauthorizedPath = path }
}

// WithDashboardPath overrides the default authenticated landing destination.
func WithDashboardPath(path string) PolicyOption {
	return func(p *Policy) { p.dashboardPath = path }
}

// NewPolicy builds a Policy from a destination → rule map.
func NewPolicy(rules map[string]Rule, opts ...PolicyOption) Policy {
	copied := make(map[string]Rule, len(rules))
	for dest, rule := range rules {
		copied[dest] = Rule{
			RequiresAuth: rule.RequiresAuth,
			AllowedRoles: append([]domainauth.Role(nil), rule.AllowedRoles...),
		}
	}
	p := Policy{
		rules:            copied,
		loginPath:        DefaultLoginPath,
		unauthorizedPath: DefaultUnauthorizedPath,
		dashboardPath:    DefaultDashboardPath,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// RuleFor returns the rule registered for a destination. Unregistered
// destinations are public: no auth required, no role restriction.
func (p Policy) RuleFor(dest string) Rule {
	if rule, ok := p.rules[dest]; ok {
		return rule
	}
	return Rule{}
}

// LoginPath returns the login destination.
func (p Policy) LoginPath() string { return p.loginPath }

// UnauthorizedPath returns the access-denied destination.
func (p Policy) UnauthorizedPath() string { return p.unauthorizedPath }

// DashboardPath returns the default authenticated landing destination.
func (p Policy) DashboardPath() string { return p.dashboardPath }

// NavigationIntent preserves the originally requested path across a login
// redirect so the user can be returned there after authenticating.
// Ephemeral: it exists only for the duration of one guard evaluation.
type NavigationIntent struct {
	From string `json:"from"`
}
