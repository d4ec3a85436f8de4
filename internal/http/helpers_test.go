package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/service"

	"github.com/stretchr/testify/require"
)

// fakeAuthService is a configurable AuthServiceInterface double. GetSession
// serves from the sessions map; the remaining operations delegate to the
// optional func fields.
type fakeAuthService struct {
	sessions map[string]*domainauth.Session

	loginFunc          func(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error)
	signupFunc         func(ctx context.Context, signup domainauth.Signup) error
	changePasswordFunc func(ctx context.Context, sessionID string, req domainauth.ChangePasswordRequest) error
	beginSSOFunc       func(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error)
	completeSSOFunc    func(ctx context.Context, input service.CompleteSSOInput) (domainauth.Session, error)

	logoutCalls []string
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{sessions: make(map[string]*domainauth.Session)}
}

func (f *fakeAuthService) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ctx, creds)
	}
	return domainauth.Session{}, errors.New("login not configured")
}

func (f *fakeAuthService) Signup(ctx context.Context, signup domainauth.Signup) error {
	if f.signupFunc != nil {
		return f.signupFunc(ctx, signup)
	}
	return errors.New("signup not configured")
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	f.logoutCalls = append(f.logoutCalls, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, sessionID string, req domainauth.ChangePasswordRequest) error {
	if f.changePasswordFunc != nil {
		return f.changePasswordFunc(ctx, sessionID, req)
	}
	return errors.New("change password not configured")
}

func (f *fakeAuthService) BeginSSO(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error) {
	if f.beginSSOFunc != nil {
		return f.beginSSOFunc(ctx, redirectURL)
	}
	return nil, errors.New("sso not configured")
}

func (f *fakeAuthService) CompleteSSO(ctx context.Context, input service.CompleteSSOInput) (domainauth.Session, error) {
	if f.completeSSOFunc != nil {
		return f.completeSSOFunc(ctx, input)
	}
	return domainauth.Session{}, errors.New("sso not configured")
}

// add stores a session and returns it for convenience.
func (f *fakeAuthService) add(session domainauth.Session) domainauth.Session {
	s := session
	f.sessions[s.ID] = &s
	return s
}

func testSession(roles ...domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:          "sess-1",
		AccessToken: "bearer-token",
		Username:    "jdoe",
		Email:       "jdoe@example.com",
		Roles:       roles,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testTemplates is a minimal template tree matching the layout the renderer
// expects. Pages surface just enough fields for assertions.
var testTemplates = fstest.MapFS{
	"templates/partials/header.tmpl": &fstest.MapFile{
		Data: []byte(`{{define "header"}}<html><body>{{end}}`),
	},
	"templates/partials/footer.tmpl": &fstest.MapFile{
		Data: []byte(`{{define "footer"}}</body></html>{{end}}`),
	},
	"templates/pages/login.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}login:{{.Error}}:{{.Notice}}:{{.RedirectURI}}{{template "footer" .}}`),
	},
	"templates/pages/signup.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}signup:{{.Error}}{{template "footer" .}}`),
	},
	"templates/pages/change_password.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}change:{{.Forced}}:{{.Error}}{{template "footer" .}}`),
	},
	"templates/pages/dashboard.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}dashboard:{{.Title}}:{{len .Tiles}}{{template "footer" .}}`),
	},
	"templates/pages/list.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}list:{{.Title}}:{{len .Rows}}{{template "footer" .}}`),
	},
	"templates/pages/error.tmpl": &fstest.MapFile{
		Data: []byte(`{{template "header" .}}error:{{.Status}}:{{.Message}}{{template "footer" .}}`),
	},
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(testTemplates, discardLogger())
	require.NoError(t, err)
	return renderer
}

// browserGet builds a GET request that the browser detection treats as a page
// load.
func browserGet(target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	return r
}

// withSession attaches a session to the request context, bypassing the auth
// middleware for handler-level tests.
func withSession(r *http.Request, session domainauth.Session) *http.Request {
	s := session
	return r.WithContext(SetSessionInContext(r.Context(), &s))
}
