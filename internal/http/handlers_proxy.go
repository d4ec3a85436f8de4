package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/efiling/console/internal/adapters/efapi"
	"github.com/efiling/console/internal/ports"
)

// maxProxyBodyBytes caps request bodies forwarded to the backend.
const maxProxyBodyBytes = 1 << 20

// ProxyHandler forwards authenticated /api/* requests to the e-filing backend,
// attaching the session's bearer token. Payloads pass through untouched in
// both directions. A 401 from the backend invalidates the console session so
// the browser is forced back through login.
type ProxyHandler struct {
	client  ports.BackendClient
	authSvc AuthServiceInterface
	logger  *slog.Logger
}

// NewProxyHandler creates the backend API proxy.
func NewProxyHandler(client ports.BackendClient, authSvc AuthServiceInterface, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{client: client, authSvc: authSvc, logger: logger}
}

// ServeHTTP handles a proxied API request. Mounted at /api/ with the backend
// path taken from the remainder of the URL.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	backendPath := strings.TrimPrefix(r.URL.Path, "/api")
	if backendPath == "" || backendPath == "/" {
		http.NotFound(w, r)
		return
	}

	var body any
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodyBytes))
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_body",
				Err:     errors.New("failed to read request body"),
			})
			return
		}
		if len(raw) > 0 {
			body = json.RawMessage(raw)
		}
	}

	var out json.RawMessage
	call := ports.BackendCall{
		Path:  backendPath,
		Token: session.AccessToken,
		Query: r.URL.Query(),
		Body:  body,
		Out:   &out,
	}

	var err error
	switch r.Method {
	case http.MethodGet:
		err = h.client.Get(r.Context(), call)
	case http.MethodPost:
		err = h.client.Post(r.Context(), call)
	case http.MethodPut:
		err = h.client.Put(r.Context(), call)
	case http.MethodDelete:
		err = h.client.Delete(r.Context(), call)
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusMethodNotAllowed,
			ErrCode: "method_not_allowed",
			Err:     errors.New("method not allowed"),
		})
		return
	}

	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}

	if len(out) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// writeBackendError maps a backend failure onto the proxy response. Status
// and payload from the backend pass through; a 401 also tears down the
// console session.
func (h *ProxyHandler) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, efapi.ErrUnauthorized) {
		if cookie, cerr := r.Cookie(SessionCookieName); cerr == nil && cookie.Value != "" {
			if lerr := h.authSvc.Logout(r.Context(), cookie.Value); lerr != nil {
				h.logger.Warn("session teardown failed", slog.String("error", lerr.Error()))
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	var apiErr *efapi.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Payload) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apiErr.Status)
			_, _ = w.Write(apiErr.Payload)
			return
		}
		WriteError(w, ErrorParams{
			Code:    apiErr.Status,
			ErrCode: "backend_error",
			Err:     err,
		})
		return
	}

	h.logger.Error("backend call failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	WriteError(w, ErrorParams{
		Code:    http.StatusBadGateway,
		ErrCode: "backend_unavailable",
		Err:     errors.New("backend unavailable"),
	})
}
