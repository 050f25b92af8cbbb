package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/domain/routing"
)

// Page destinations and their access rules. The policy is fixed at
// deployment time; handlers never consult roles themselves.
const (
	PathLogin        = routing.DefaultLoginPath
	PathUnauthorized = routing.DefaultUnauthorizedPath
	PathDashboard    = routing.DefaultDashboardPath
	PathPostings     = "/postings/manage"
	PathAlumni       = "/alumni-network"
)

// DefaultPolicy returns the portal's navigation policy.
func DefaultPolicy() routing.Policy {
	return routing.NewPolicy(map[string]routing.Rule{
		PathDashboard: {RequiresAuth: true},
		PathPostings: {
			RequiresAuth: true,
			AllowedRoles: []domainauth.Role{domainauth.RolePlacement},
		},
		PathAlumni: {
			RequiresAuth: true,
			AllowedRoles: []domainauth.Role{domainauth.RoleAlumni, domainauth.RolePlacement},
		},
		PathLogin:        {},
		PathUnauthorized: {},
	})
}

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth        AuthDeps
	Collections CollectionsService
	Stores      StoreFactory
	// Policy defaults to DefaultPolicy when zero rules are registered.
	Policy *routing.Policy
	Logger *slog.Logger
}

// NewRouter creates and configures the portal HTTP handler.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := DefaultPolicy()
	if services.Policy != nil {
		policy = *services.Policy
	}

	app := http.NewServeMux()

	authHandlers := &AuthHandlers{Deps: services.Auth}
	registerAuthRoutes(app, authHandlers)

	if services.Collections != nil {
		registerCollectionRoutes(app, &CollectionHandlers{Svc: services.Collections})
	}

	registerPageRoutes(app, &PageHandlers{Logger: logger}, policy)

	// Health probes bypass session restoration.
	root := http.NewServeMux()
	root.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	root.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	root.Handle("/", Chain(app, SessionRestore(services.Stores)))

	return Chain(root, Recover(logger), Logging(logger))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/status", h.Status)

	if h.Deps.SSO != nil {
		mux.HandleFunc("GET /auth/sso/login", h.SSOLogin)
		mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
	}
}

func registerCollectionRoutes(mux *http.ServeMux, h *CollectionHandlers) {
	requireAuth := RequireAuth()

	mux.Handle("GET /api/collections/{collection}", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/collections/{collection}", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/collections/{collection}/{id}", requireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/collections/{collection}/{id}", requireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/collections/{collection}/{id}", requireAuth(http.HandlerFunc(h.Delete)))
}

func registerPageRoutes(mux *http.ServeMux, pages *PageHandlers, policy routing.Policy) {
	guard := Guard(policy)
	show := http.HandlerFunc(pages.Show)

	for _, path := range []string{
		PathDashboard,
		PathPostings,
		PathAlumni,
		PathLogin,
		PathUnauthorized,
	} {
		mux.Handle("GET "+path, guard(show))
	}

	// The root path forwards to the dashboard; the guard on the dashboard
	// then decides whether the visitor may stay.
	mux.Handle("GET /{$}", http.RedirectHandler(PathDashboard, http.StatusTemporaryRedirect))
}
