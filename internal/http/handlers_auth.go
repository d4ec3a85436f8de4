package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/domain/nav"
	"github.com/efiling/console/internal/service"

	"github.com/efiling/console/internal/adapters/efapi"
)

// SessionCookieName is the cookie holding the console session ID.
const SessionCookieName = "session_id"

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieMaxAge   = 600
	registeredQueryFlag = "registered"
)

// AuthServiceInterface defines the authentication operations the HTTP layer
// depends on. Satisfied by service.AuthService.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error)
	Signup(ctx context.Context, signup domainauth.Signup) error
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, sessionID string, req domainauth.ChangePasswordRequest) error
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error)
	CompleteSSO(ctx context.Context, input service.CompleteSSOInput) (domainauth.Session, error)
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers serves the login, signup, password change, and SSO endpoints.
type AuthHandlers struct {
	svc          AuthServiceInterface
	renderer     *Renderer
	logger       *slog.Logger
	cookieDomain string
	ssoEnabled   bool
	ssoLogoutURL string
}

// AuthHandlersOptions configures AuthHandlers.
type AuthHandlersOptions struct {
	Svc          AuthServiceInterface
	Renderer     *Renderer
	Logger       *slog.Logger
	CookieDomain string
	SSOEnabled   bool

	// SSOLogoutURL is the identity provider's end-session endpoint. When set,
	// browser logouts redirect there instead of the local login page.
	SSOLogoutURL string
}

// NewAuthHandlers creates handlers for the authentication endpoints.
func NewAuthHandlers(opts AuthHandlersOptions) *AuthHandlers {
	return &AuthHandlers{
		svc:          opts.Svc,
		renderer:     opts.Renderer,
		logger:       opts.Logger,
		cookieDomain: opts.CookieDomain,
		ssoEnabled:   opts.SSOEnabled,
		ssoLogoutURL: opts.SSOLogoutURL,
	}
}

type loginPageData struct {
	basePageData
	Username    string
	RedirectURI string
	Error       string
	Notice      string
	SSOEnabled  bool
}

// authPageBase builds page chrome for the unauthenticated auth pages.
func authPageBase(r *http.Request, title string) basePageData {
	return basePageData{
		Title:     title,
		CSRFToken: GetCSRFToken(r.Context()),
	}
}

// LoginPage renders the login form. Already-authenticated users are sent to
// their landing page instead.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session := getSessionFromRequest(r, h.svc); session.IsAuthenticated() {
		http.Redirect(w, r, nav.DefaultLanding(session), http.StatusSeeOther)
		return
	}

	data := loginPageData{
		basePageData: authPageBase(r, "Sign In"),
		RedirectURI:  safeRedirectPath(r.URL.Query().Get("redirect_uri")),
		SSOEnabled:   h.ssoEnabled,
	}
	if r.URL.Query().Get(registeredQueryFlag) == "1" {
		data.Notice = "Account created. Check your email for your credentials."
	}
	h.renderer.Render(w, r, http.StatusOK, "login.tmpl", data)
}

// LoginSubmit handles the login form POST.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	creds := domainauth.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	session, err := h.svc.Login(r.Context(), creds)
	if err != nil {
		h.logger.Info("login rejected",
			slog.String("username", creds.Username),
			slog.String("error", err.Error()))
		data := loginPageData{
			basePageData: authPageBase(r, "Sign In"),
			Username:     creds.Username,
			RedirectURI:  redirectURI,
			Error:        loginErrorMessage(err),
			SSOEnabled:   h.ssoEnabled,
		}
		h.renderer.Render(w, r, loginErrorStatus(err), "login.tmpl", data)
		return
	}

	h.setSessionCookie(w, r, session)

	if session.MustChangePassword {
		http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		return
	}
	if redirectURI == "" {
		redirectURI = nav.DefaultLanding(&session)
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

type signupPageData struct {
	basePageData
	Form  domainauth.Signup
	Error string
}

// SignupPage renders the self-registration form.
func (h *AuthHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	data := signupPageData{basePageData: authPageBase(r, "Create Account")}
	h.renderer.Render(w, r, http.StatusOK, "signup.tmpl", data)
}

// SignupSubmit handles the registration form POST. On success the browser is
// sent back to the login page with a confirmation notice.
func (h *AuthHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	signup := domainauth.Signup{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		FirstName:       strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:        strings.TrimSpace(r.PostFormValue("last_name")),
		PhoneNumber:     strings.TrimSpace(r.PostFormValue("phone_number")),
		InstitutionName: strings.TrimSpace(r.PostFormValue("institution_name")),
		InstitutionType: strings.TrimSpace(r.PostFormValue("institution_type")),
	}

	if err := h.svc.Signup(r.Context(), signup); err != nil {
		h.logger.Info("signup rejected",
			slog.String("username", signup.Username),
			slog.String("error", err.Error()))
		signup.Password = ""
		data := signupPageData{
			basePageData: authPageBase(r, "Create Account"),
			Form:         signup,
			Error:        formErrorMessage(err, "Registration failed. Please try again."),
		}
		h.renderer.Render(w, r, formErrorStatus(err), "signup.tmpl", data)
		return
	}

	http.Redirect(w, r, "/login?"+registeredQueryFlag+"=1", http.StatusSeeOther)
}

// Logout terminates the session and clears the cookie. Safe to call without
// an active session.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout failed", slog.String("error", err.Error()))
		}
	}

	h.clearCookie(w, r, SessionCookieName)

	if IsBrowserRequest(r) {
		// RP-initiated logout: when the identity provider exposes an
		// end-session endpoint, send the browser there so the IdP session
		// ends too.
		if h.ssoLogoutURL != "" {
			http.Redirect(w, r, h.ssoLogoutURL, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordPageData struct {
	basePageData
	Forced bool
	Error  string
}

// changePasswordBase carries the session into the page chrome so the header
// shows the signed-in user.
func changePasswordBase(r *http.Request) basePageData {
	base := authPageBase(r, "Change Password")
	base.Session = GetSessionFromContext(r.Context())
	return base
}

// ChangePasswordPage renders the password change form. When the session
// carries the must-change flag the page explains why the user landed here.
func (h *AuthHandlers) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	data := changePasswordPageData{
		basePageData: changePasswordBase(r),
		Forced:       session != nil && session.MustChangePassword,
	}
	h.renderer.Render(w, r, http.StatusOK, "change_password.tmpl", data)
}

// ChangePasswordSubmit handles the password change form POST.
func (h *AuthHandlers) ChangePasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	req := domainauth.ChangePasswordRequest{
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	session := GetSessionFromContext(r.Context())
	if err := h.svc.ChangePassword(r.Context(), cookie.Value, req); err != nil {
		h.logger.Info("password change rejected", slog.String("error", err.Error()))
		data := changePasswordPageData{
			basePageData: changePasswordBase(r),
			Forced:       session != nil && session.MustChangePassword,
			Error:        formErrorMessage(err, "Password change failed. Please try again."),
		}
		h.renderer.Render(w, r, formErrorStatus(err), "change_password.tmpl", data)
		return
	}

	http.Redirect(w, r, nav.DefaultLanding(session), http.StatusSeeOther)
}

type statusResponse struct {
	Authenticated      bool     `json:"authenticated"`
	Username           string   `json:"username,omitempty"`
	Email              string   `json:"email,omitempty"`
	Roles              []string `json:"roles,omitempty"`
	MustChangePassword bool     `json:"must_change_password,omitempty"`
}

// Status reports the current session state as JSON.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	roles := make([]string, 0, len(session.Roles))
	for _, role := range session.Roles {
		roles = append(roles, string(role))
	}
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated:      true,
		Username:           session.Username,
		Email:              session.Email,
		Roles:              roles,
		MustChangePassword: session.MustChangePassword,
	})
}

// SSOLogin starts the identity provider flow. State and nonce are persisted
// in short-lived cookies for the callback to verify.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if !h.ssoEnabled {
		http.NotFound(w, r)
		return
	}

	result, err := h.svc.BeginSSO(r.Context(), callbackURL(r))
	if err != nil {
		h.logger.Error("sso begin failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setOAuthCookie(w, r, oauthStateCookie, result.State)
	h.setOAuthCookie(w, r, oauthNonceCookie, result.Nonce)
	if redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri")); redirect != "" {
		h.setOAuthCookie(w, r, postLoginCookie, redirect)
	}

	http.Redirect(w, r, result.AuthURL, http.StatusSeeOther)
}

// SSOCallback completes the identity provider flow.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if !h.ssoEnabled {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("sso callback state mismatch")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var nonce string
	if nonceCookie, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = nonceCookie.Value
	}

	session, err := h.svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:  r.URL.Query().Get("code"),
		State: r.URL.Query().Get("state"),
		Nonce: nonce,
	})

	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	if err != nil {
		h.logger.Error("sso callback failed", slog.String("error", err.Error()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.setSessionCookie(w, r, session)

	redirect := nav.DefaultLanding(&session)
	if c, err := r.Cookie(postLoginCookie); err == nil {
		if safe := safeRedirectPath(c.Value); safe != "" {
			redirect = safe
		}
		h.clearCookie(w, r, postLoginCookie)
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, session domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.cookieDomain,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setOAuthCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// callbackURL reconstructs the absolute URL of the SSO callback endpoint from
// the incoming request.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if isForwardedHTTPS(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/auth/callback"
}

// safeRedirectPath returns the path if it is a local absolute path, otherwise
// an empty string. Rejects protocol-relative and absolute URLs so the login
// redirect cannot send the browser off-site.
func safeRedirectPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	if strings.ContainsAny(path, "\\\r\n") {
		return ""
	}
	return path
}

// loginErrorMessage maps service errors to user-facing copy on the login form.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case isUnauthorized(err):
		return "Invalid username or password."
	default:
		return "Sign-in is unavailable right now. Please try again."
	}
}

func loginErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case isUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// formErrorMessage surfaces validation errors and backend messages on a form,
// falling back to generic copy for everything else.
func formErrorMessage(err error, fallback string) string {
	if errors.Is(err, service.ErrValidation) {
		return err.Error()
	}
	var apiErr *efapi.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

func formErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case isUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, efapi.ErrUnauthorized)
}
