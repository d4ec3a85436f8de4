package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName is the cookie carrying the server-issued CSRF token.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the request header alternative to the form field.
	CSRFHeaderName = "X-Csrf-Token"
	// CSRFFormField is the hidden input name rendered into every form.
	CSRFFormField = "csrf_token"

	csrfTokenBytes     = 32
	csrfCookieMaxAge   = 12 * 60 * 60
	csrfSafeMethodGet  = http.MethodGet
	csrfSafeMethodHead = http.MethodHead
)

type csrfTokenKey struct{}

// CSRFProtection implements the double-submit cookie pattern. Safe methods
// get a token issued; unsafe methods must echo the cookie value back in the
// form field or header. The cookie is HttpOnly because forms receive the
// token server-side at render time.
func CSRFProtection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ensureCSRFCookie(w, r)
			ctx := context.WithValue(r.Context(), csrfTokenKey{}, token)
			r = r.WithContext(ctx)

			switch r.Method {
			case csrfSafeMethodGet, csrfSafeMethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if submitted == "" {
				submitted = r.PostFormValue(CSRFFormField)
			}
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "csrf_token_invalid",
					Err:     errors.New("invalid or missing CSRF token"),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken returns the CSRF token for the current request, for rendering
// into form templates. Empty when the middleware did not run.
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}

// ensureCSRFCookie returns the existing CSRF token or mints and sets a new one.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CSRFCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfCookieMaxAge,
		HttpOnly: true,
		Secure:   isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// isForwardedHTTPS reports whether the original client connection used TLS,
// accounting for a terminating proxy.
func isForwardedHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	return strings.EqualFold(proto, "https")
}
