package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword verifies credentials against the portal database.
	AuthModePassword AuthMode = "password"
	// AuthModeSSO adds campus single sign-on on top of password auth.
	AuthModeSSO AuthMode = "sso"
	// AuthModeMock uses a fixed dev identity (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "sso", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, sso, mock)", v)
	}
}

// SSOConfig contains campus OIDC configuration, used when Mode=sso.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"placement-portal"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// Affiliation groups mapped to portal roles. Placement wins over
	// alumni, alumni over student, when a person carries several.
	PlacementGroups []string `env:"PLACEMENT_GROUPS" envDefault:"placement-cell" envSeparator:";"`
	AlumniGroups    []string `env:"ALUMNI_GROUPS"    envDefault:"alumni"         envSeparator:";"`
	StudentGroups   []string `env:"STUDENT_GROUPS"   envDefault:"students"       envSeparator:";"`
}

// DevAuthConfig controls the fixed identity used when Mode=mock.
type DevAuthConfig struct {
	UserID   string `env:"USER_ID"   envDefault:"dev-user"`
	FullName string `env:"FULL_NAME" envDefault:"Dev User"`
	Email    string `env:"EMAIL"     envDefault:"dev@campus.edu"`
	Role     string `env:"ROLE"      envDefault:"student"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SSO configuration (used when Mode=sso).
	SSO SSOConfig `envPrefix:"SSO_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// MinPasswordLength is the signup password policy.
	MinPasswordLength int `env:"AUTH_MIN_PASSWORD_LENGTH" envDefault:"8"`

	// BcryptCost is the password hashing cost. Zero uses the library default.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"0"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.MinPasswordLength < 1 {
		a.MinPasswordLength = 8
	}
	if a.BcryptCost < 0 {
		a.BcryptCost = 0
	}
}
