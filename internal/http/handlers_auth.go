package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/domain/view"
	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/service"
)

// AuthDeps holds the long-lived collaborators auth handlers bind to each
// request's session store.
type AuthDeps struct {
	Backend  ports.IdentityBackend
	Notifier ports.Notifier
	// SSO is optional; nil disables the SSO endpoints.
	SSO ports.SSOProvider

	LoginPath         string
	MinPasswordLength int
	CookieDomain      string
	// SSOCallbackURL is the absolute redirect URL registered with the
	// identity provider.
	SSOCallbackURL string
	Logger         *slog.Logger
}

// AuthHandlers provides HTTP handlers for authentication operations. The
// session store lives per client, so the auth service facade is assembled
// per request around the store the session middleware restored.
type AuthHandlers struct {
	Deps AuthDeps
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Deps.Logger != nil {
		return h.Deps.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) serviceFor(r *http.Request, router ports.Router) (*service.AuthService, bool) {
	store := GetStoreFromContext(r.Context())
	if store == nil {
		return nil, false
	}
	return service.NewAuthService(service.AuthServiceOptions{
		Backend:           h.Deps.Backend,
		Sessions:          store,
		Router:            router,
		Notifier:          h.Deps.Notifier,
		LoginPath:         h.Deps.LoginPath,
		MinPasswordLength: h.Deps.MinPasswordLength,
		Logger:            h.Deps.Logger,
	}), true
}

// loginRequest is the login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	svc, ok := h.serviceFor(r, newRedirectRecorder(r.URL.Path))
	if !ok {
		writeNoStore(w)
		return
	}

	sess, err := svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionPayload(sess))
}

// signupRequest is the signup payload.
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Signup handles POST /api/auth/signup. A created account is not signed
// in; the client logs in afterwards.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	svc, ok := h.serviceFor(r, newRedirectRecorder(r.URL.Path))
	if !ok {
		writeNoStore(w)
		return
	}

	if err := svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	}); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Logout handles POST /api/auth/logout. AJAX callers get a JSON payload
// with the destination; browser form posts get a redirect.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	router := newRedirectRecorder(r.URL.Path)
	svc, ok := h.serviceFor(r, router)
	if !ok {
		writeNoStore(w)
		return
	}

	svc.Logout(r.Context())

	target := h.Deps.LoginPath
	if router.recorded {
		target = router.Target()
	}

	if isAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": target,
		})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Status handles GET /api/auth/status. It reports the restored session
// and the view variant the client should render.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	WriteJSON(w, http.StatusOK, sessionPayload(sess))
}

func sessionPayload(sess domainauth.Session) map[string]any {
	payload := map[string]any{
		"authenticated": sess.IsAuthenticated,
		"loading":       sess.IsLoading,
	}
	if sess.Identity != nil {
		payload["user"] = map[string]any{
			"id":         sess.Identity.UserID,
			"full_name":  sess.Identity.FullName,
			"email":      sess.Identity.Email,
			"role":       sess.Identity.Role,
			"avatar_url": sess.Identity.AvatarURL,
		}
		payload["view"] = view.Resolve(sess.Role()).String()
	}
	return payload
}

func writeNoStore(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "session_not_restored",
		Err:     errors.New("session middleware did not run"),
	})
}

func isAJAX(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// SSOLogin handles GET /auth/sso/login?redirect_uri=<optional>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if h.Deps.SSO == nil {
		writeSSODisabled(w)
		return
	}

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	store := GetStoreFromContext(r.Context())
	if store == nil {
		writeNoStore(w)
		return
	}
	svc := service.NewSSOService(service.SSOServiceOptions{
		Provider: h.Deps.SSO,
		Sessions: store,
		Notifier: h.Deps.Notifier,
		Logger:   h.Deps.Logger,
	})

	result, err := svc.BeginSSO(r.Context(), h.Deps.SSOCallbackURL)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "sso_begin_failed", Err: err})
		return
	}

	h.setSSOCookies(w, r, ssoCookieParams{
		State:       result.State,
		Nonce:       result.Nonce,
		RedirectURI: redirectURI,
	})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback handles GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if h.Deps.SSO == nil {
		writeSSODisabled(w)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("sso_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("sso_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	store := GetStoreFromContext(r.Context())
	if store == nil {
		writeNoStore(w)
		return
	}
	svc := service.NewSSOService(service.SSOServiceOptions{
		Provider: h.Deps.SSO,
		Sessions: store,
		Notifier: h.Deps.Notifier,
		Logger:   h.Deps.Logger,
	})

	if _, completeErr := svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	}); completeErr != nil {
		h.logger().WarnContext(r.Context(), "sso completion failed", "error", completeErr)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "sso_failed",
			Err:     completeErr,
		})
		return
	}

	h.clearCookie(w, r, "sso_state")
	h.clearCookie(w, r, "sso_nonce")
	http.Redirect(w, r, h.popPostLoginRedirect(w, r), http.StatusFound)
}

func writeSSODisabled(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "sso_disabled",
		Err:     errors.New("campus SSO is not enabled"),
	})
}

// ssoCookieParams groups the temporary cookies set while the SSO flow is
// in flight.
type ssoCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

func (h *AuthHandlers) setSSOCookies(w http.ResponseWriter, r *http.Request, p ssoCookieParams) {
	const ssoFlowTTL = 600

	for name, value := range map[string]string{
		"sso_state":           p.State,
		"sso_nonce":           p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.Deps.CookieDomain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   ssoFlowTTL,
		})
	}
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.Deps.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// popPostLoginRedirect returns the stashed destination and clears its
// cookie. Falls back to the dashboard.
func (h *AuthHandlers) popPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/dashboard"
	if cookie, err := r.Cookie("post_login_redirect"); err == nil {
		if candidate := safeRedirectPath(cookie.Value); candidate != "/" {
			redirectURI = candidate
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

// safeRedirectPath allows only same-origin relative paths starting with
// "/". Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
