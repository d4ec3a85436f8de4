package httpx

// Package httpx is the console's HTTP layer: authentication and SSO
// endpoints, the rendered console pages, and the authenticated passthrough to
// the e-filing backend API.

import (
	"io/fs"
	"log/slog"
	"net/http"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/service"
)

// RouterOptions collects everything the router needs.
type RouterOptions struct {
	AuthSvc AuthServiceInterface
	Auth    *AuthHandlers
	UI      *UIHandlers
	Proxy   *ProxyHandler
	Static  fs.FS
	Logger  *slog.Logger
}

// NewRouter builds the console HTTP handler. Route guards are applied here,
// centrally, so every page under an area prefix carries the same role
// requirement as its menu entry.
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	authed := chain(
		RequireAuthBrowser(opts.AuthSvc),
		ForcedPasswordGate(),
	)
	portal := chain(
		RequireRolesBrowser(opts.AuthSvc, domainauth.RoleExternalUser, domainauth.RoleExternalInstitutional),
		ForcedPasswordGate(),
	)
	backoffice := chain(
		RequireRolesBrowser(opts.AuthSvc, domainauth.RoleBackOffice),
		ForcedPasswordGate(),
	)
	// Document types are maintained by both back office and administrators.
	docTypes := chain(
		RequireRolesBrowser(opts.AuthSvc, domainauth.RoleBackOffice, domainauth.RoleAdministrator),
		ForcedPasswordGate(),
	)
	admin := chain(
		RequireRolesBrowser(opts.AuthSvc, domainauth.RoleAdministrator),
		ForcedPasswordGate(),
	)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(opts.Static)))

	// Authentication endpoints.
	mux.HandleFunc("GET /login", opts.Auth.LoginPage)
	mux.HandleFunc("POST /login", opts.Auth.LoginSubmit)
	mux.HandleFunc("GET /signup", opts.Auth.SignupPage)
	mux.HandleFunc("POST /signup", opts.Auth.SignupSubmit)
	mux.HandleFunc("POST /logout", opts.Auth.Logout)
	mux.HandleFunc("GET /auth/sso/login", opts.Auth.SSOLogin)
	mux.HandleFunc("GET /auth/callback", opts.Auth.SSOCallback)
	mux.Handle("GET /auth/status", OptionalAuth(opts.AuthSvc)(http.HandlerFunc(opts.Auth.Status)))

	// Password change stays reachable while the forced-change gate is up.
	requireAuth := RequireAuthBrowser(opts.AuthSvc)
	mux.Handle("GET /change-password", requireAuth(http.HandlerFunc(opts.Auth.ChangePasswordPage)))
	mux.Handle("POST /change-password", requireAuth(http.HandlerFunc(opts.Auth.ChangePasswordSubmit)))

	// Landing.
	mux.Handle("GET /{$}", authed(http.HandlerFunc(opts.UI.Landing)))

	// Applicant portal.
	mux.Handle("GET /portal/dashboard", portal(opts.UI.Dashboard("Dashboard", service.PortalTiles)))
	mux.Handle("GET /portal/submit", portal(opts.UI.ListPage("New Submission", "/document-types")))
	mux.Handle("GET /portal/documents", portal(opts.UI.ListPage("My Documents", "/documents/my")))
	mux.Handle("GET /portal/institutional-documents", portal(opts.UI.ListPage("Institutional Docs", "/documents/institutional")))

	// Back office.
	mux.Handle("GET /backoffice/dashboard", backoffice(opts.UI.Dashboard("Dashboard", service.BackOfficeTiles)))
	mux.Handle("GET /backoffice/approvals", backoffice(opts.UI.ListPage("Pending Approvals", "/documents/pending")))
	mux.Handle("GET /backoffice/signatures", backoffice(opts.UI.ListPage("Digital Signatures", "/signatures/pending")))
	mux.Handle("GET /backoffice/share-document", backoffice(opts.UI.ListPage("Share Documents", "/documents/shared")))
	mux.Handle("GET /backoffice/document-types", docTypes(opts.UI.ListPage("Document Types", "/document-types")))

	// Administration.
	mux.Handle("GET /admin/dashboard", admin(opts.UI.Dashboard("Dashboard", service.AdminTiles)))
	mux.Handle("GET /admin/users", admin(opts.UI.ListPage("User Management", "/users")))
	mux.Handle("GET /admin/institutions", admin(opts.UI.ListPage("Institutions", "/institutions")))
	mux.Handle("GET /admin/forms", admin(opts.UI.ListPage("Forms Management", "/forms")))
	mux.Handle("GET /admin/workflows", admin(opts.UI.ListPage("Workflows", "/workflows")))
	mux.Handle("GET /admin/settings", admin(opts.UI.ListPage("System Settings", "/settings")))

	// Backend API passthrough.
	apiChain := chain(RequireAuth(opts.AuthSvc), ForcedPasswordGate())
	mux.Handle("/api/", apiChain(opts.Proxy))

	// Everything else.
	mux.Handle("/", OptionalAuth(opts.AuthSvc)(http.HandlerFunc(opts.UI.NotFound)))

	return chain(
		Recover(opts.Logger),
		Logging(opts.Logger),
		BrowserDetection(),
		CSRFProtection(),
	)(mux)
}

// chain composes middleware left to right: the first middleware is the
// outermost.
func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
