package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/domain/routing"
	"github.com/placementhub/portal-api/internal/session"
)

// ClientCookieName is the opaque identifier naming a client's vault slot.
// It carries no identity; the role and user are resolved server-side.
const ClientCookieName = "portal_client"

// clientCookieMaxAge matches the vault's identity TTL.
const clientCookieMaxAge = 30 * 24 * 60 * 60

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// StoreFactory builds the per-client session store. The bootstrap wires it
// to the configured vault.
type StoreFactory func(clientID string) *session.Store

// SessionRestore returns the middleware that resolves the client cookie,
// restores the client's session from the vault, and places both the store
// and a session snapshot in the request context. A client without a cookie
// gets a fresh identifier.
func SessionRestore(stores StoreFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientIDFromRequest(r)
			if clientID == "" {
				clientID = uuid.NewString()
				setClientCookie(w, r, clientID)
			}

			store := stores(clientID)
			sess := store.Restore(r.Context())

			ctx := SetClientIDInContext(r.Context(), clientID)
			ctx = SetStoreInContext(ctx, store)
			ctx = SetSessionInContext(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	if _, parseErr := uuid.Parse(cookie.Value); parseErr != nil {
		return ""
	}
	return cookie.Value
}

func setClientCookie(w http.ResponseWriter, r *http.Request, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    clientID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   clientCookieMaxAge,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Guard returns the middleware enforcing the navigation policy on page
// routes. Unauthenticated visits to protected destinations bounce to the
// login path carrying the intended destination; authenticated visits to
// disallowed destinations bounce to the unauthorized path; authenticated
// visits to the login path bounce to the dashboard.
func Guard(policy routing.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSessionFromContext(r.Context())
			decision := routing.Evaluate(policy, r.URL.Path, sess)

			switch decision.State {
			case routing.Loading:
				// Session restore always completes before the guard runs;
				// a loading session here means wiring is broken.
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "session_not_restored",
					Err:     errors.New("session was not restored before routing"),
				})
				return
			case routing.Unauthenticated:
				http.Redirect(w, r, loginRedirectURL(decision), http.StatusSeeOther)
				return
			case routing.AuthenticatedDenied, routing.AuthenticatedOnLoginPage:
				http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loginRedirectURL appends the navigation intent so login can send the
// user back where they were headed.
func loginRedirectURL(decision routing.Decision) string {
	target := decision.Redirect
	if decision.Intent != nil && decision.Intent.From != "" {
		q := url.Values{}
		q.Set("redirect_uri", decision.Intent.From)
		target += "?" + q.Encode()
	}
	return target
}

// RequireAuth returns a middleware for API routes that requires an
// authenticated session and returns 401 JSON otherwise.
func RequireAuth() func(http.Handler) http.Handler {
	return RequireRoles()
}

// RequireRoles returns a middleware for API routes. With no roles it
// admits any authenticated session; with roles it admits only sessions
// whose role is in the set.
func RequireRoles(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSessionFromContext(r.Context())
			if !sess.IsAuthenticated {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if len(roles) > 0 && !roleAllowed(sess.Role(), roles) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// Chain applies middlewares left to right around a handler.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
