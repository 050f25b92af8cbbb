package routing

import (
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
)

// State is the outcome class of one guard evaluation.
type State int

const (
	// Loading defers rendering until the session resolution finishes.
	Loading State = iota
	// Unauthenticated redirects to login, carrying the requested path.
	Unauthenticated
	// AuthenticatedAllowed renders the requested destination.
	AuthenticatedAllowed
	// AuthenticatedDenied redirects to the unauthorized destination.
	AuthenticatedDenied
	// AuthenticatedOnLoginPage bounces an authenticated user off the
	// login page to the dashboard.
	AuthenticatedOnLoginPage
)

// String names the state for logs.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedAllowed:
		return "allowed"
	case AuthenticatedDenied:
		return "denied"
	case AuthenticatedOnLoginPage:
		return "on_login_page"
	default:
		return "unknown"
	}
}

// Decision is the result of one guard evaluation: either render the
// destination or redirect elsewhere. Stateless across evaluations.
type Decision struct {
	State    State
	Render   bool
	Redirect string
	// Intent is set only for login redirects, preserving the original path.
	Intent *NavigationIntent
	// Replace asks the router to replace the history entry instead of
	// pushing, so the guarded bounce does not pollute back-navigation.
	Replace bool
}

// Evaluate runs the guard state machine for one navigation attempt.
// Transition rules are checked in strict order; first match wins:
//
//  1. session still loading        → Loading, defer
//  2. auth required, not authed    → Unauthenticated, redirect to login
//  3. role outside non-empty set   → AuthenticatedDenied, redirect to unauthorized
//  4. authed user on login page    → AuthenticatedOnLoginPage, redirect to dashboard
//  5. otherwise                    → AuthenticatedAllowed, render
//
// An empty role set on a protected destination admits any authenticated
// role; it never means deny-all.
func Evaluate(policy Policy, dest string, sess domainauth.Session) Decision {
	if sess.IsLoading {
		return Decision{State: Loading}
	}

	rule := policy.RuleFor(dest)

	if rule.RequiresAuth && !sess.IsAuthenticated {
		return Decision{
			State:    Unauthenticated,
			Redirect: policy.LoginPath(),
			Intent:   &NavigationIntent{From: dest},
			Replace:  true,
		}
	}

	if sess.IsAuthenticated && len(rule.AllowedRoles) > 0 && !rule.Allows(sess.Role()) {
		return Decision{
			State:    AuthenticatedDenied,
			Redirect: policy.UnauthorizedPath(),
			Replace:  true,
		}
	}

	if sess.IsAuthenticated && dest == policy.LoginPath() {
		return Decision{
			State:    AuthenticatedOnLoginPage,
			Redirect: policy.DashboardPath(),
			Replace:  true,
		}
	}

	return Decision{State: AuthenticatedAllowed, Render: true}
}
