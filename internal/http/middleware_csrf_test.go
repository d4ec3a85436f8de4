package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return CSRFProtection()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func issuedCSRFToken(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookieName {
			require.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
			return c.Value
		}
	}
	t.Fatal("no CSRF cookie issued")
	return ""
}

func TestCSRF_GetIssuesToken(t *testing.T) {
	token := issuedCSRFToken(t)
	assert.NotEmpty(t, token)
}

func TestCSRF_PostWithoutTokenRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "csrf_token_invalid")
}

func TestCSRF_PostWithFormTokenAccepted(t *testing.T) {
	token := issuedCSRFToken(t)

	form := url.Values{CSRFFormField: {token}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})

	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_PostWithHeaderTokenAccepted(t *testing.T) {
	token := issuedCSRFToken(t)

	r := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	r.Header.Set(CSRFHeaderName, token)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})

	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_MismatchedTokenRejected(t *testing.T) {
	token := issuedCSRFToken(t)

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.Header.Set(CSRFHeaderName, "not-the-token")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})

	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetCSRFToken_EmptyWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetCSRFToken(r.Context()))
}
