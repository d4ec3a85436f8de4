package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/efiling/console/internal/adapters/efapi"
	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/domain/nav"
	"github.com/efiling/console/internal/ports"
	"github.com/efiling/console/internal/service"
)

// UIHandlers renders the authenticated console pages: the per-area dashboards
// and the generic backend collection listings.
type UIHandlers struct {
	renderer *Renderer
	dash     *service.DashboardService
	client   ports.BackendClient
	logger   *slog.Logger
}

// UIHandlersOptions configures UIHandlers.
type UIHandlersOptions struct {
	Renderer *Renderer
	Dash     *service.DashboardService
	Client   ports.BackendClient
	Logger   *slog.Logger
}

// NewUIHandlers creates the console page handlers.
func NewUIHandlers(opts UIHandlersOptions) *UIHandlers {
	return &UIHandlers{
		renderer: opts.Renderer,
		dash:     opts.Dash,
		client:   opts.Client,
		logger:   opts.Logger,
	}
}

// basePageData carries the chrome every authenticated page needs.
type basePageData struct {
	Title       string
	Session     *domainauth.Session
	Menu        []nav.Entry
	ActiveHref  string
	UnreadCount int64
	CSRFToken   string
}

func (h *UIHandlers) base(r *http.Request, title string) basePageData {
	session := GetSessionFromContext(r.Context())
	data := basePageData{
		Title:      title,
		Session:    session,
		Menu:       nav.Menu(session),
		ActiveHref: r.URL.Path,
		CSRFToken:  GetCSRFToken(r.Context()),
	}
	if session.IsAuthenticated() {
		count, err := h.dash.UnreadNotifications(r.Context(), session.AccessToken)
		if err == nil {
			data.UnreadCount = count
		}
	}
	return data
}

type dashboardPageData struct {
	basePageData
	Tiles []service.TileCount
}

// Landing sends the authenticated user to the dashboard matching their
// highest-privilege role.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	http.Redirect(w, r, nav.DefaultLanding(session), http.StatusSeeOther)
}

// Dashboard returns a handler rendering the dashboard for one console area.
func (h *UIHandlers) Dashboard(title string, tiles []service.Tile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())

		counts, err := h.dash.Counts(r.Context(), session.AccessToken, tiles)
		if err != nil {
			if errors.Is(err, efapi.ErrUnauthorized) {
				h.expireSession(w, r)
				return
			}
			h.logger.Error("dashboard failed", slog.String("error", err.Error()))
			h.renderError(w, r, http.StatusBadGateway, "The backend is unavailable right now.")
			return
		}

		data := dashboardPageData{
			basePageData: h.base(r, title),
			Tiles:        counts,
		}
		h.renderer.Render(w, r, http.StatusOK, "dashboard.tmpl", data)
	}
}

type listPageData struct {
	basePageData
	Columns []string
	Rows    [][]string
	Empty   bool
}

// ListPage returns a handler that fetches a backend collection and renders it
// as a table. Columns come from the row keys, so the page tracks whatever
// fields the backend returns.
func (h *UIHandlers) ListPage(title, backendPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())

		var rows []map[string]any
		call := ports.BackendCall{
			Path:  backendPath,
			Token: session.AccessToken,
			Query: r.URL.Query(),
			Out:   &rows,
		}
		if err := h.client.Get(r.Context(), call); err != nil {
			if errors.Is(err, efapi.ErrUnauthorized) {
				h.expireSession(w, r)
				return
			}
			h.logger.Error("list fetch failed",
				slog.String("path", backendPath),
				slog.String("error", err.Error()))
			h.renderError(w, r, http.StatusBadGateway, "The backend is unavailable right now.")
			return
		}

		data := listPageData{
			basePageData: h.base(r, title),
			Empty:        len(rows) == 0,
		}
		data.Columns, data.Rows = tabulate(rows)
		h.renderer.Render(w, r, http.StatusOK, "list.tmpl", data)
	}
}

// NotFound renders the console 404 page for browsers and JSON for API calls.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	h.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

type errorPageData struct {
	basePageData
	Status  int
	Message string
}

func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := errorPageData{
		basePageData: h.base(r, "Error"),
		Status:       status,
		Message:      message,
	}
	h.renderer.Render(w, r, status, "error.tmpl", data)
}

// expireSession clears the cookie and sends the browser back to login after
// the backend rejected the session's token.
func (h *UIHandlers) expireSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	redirectToLogin(w, r)
}

// tabulate flattens a JSON collection into columns and string rows. Columns
// are the union of keys across rows, sorted for a stable layout.
func tabulate(rows []map[string]any) ([]string, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}

	colSet := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			colSet[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(colSet))
	for key := range colSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if val, ok := row[col]; ok && val != nil {
				cells[i] = fmt.Sprint(val)
			}
		}
		out = append(out, cells)
	}
	return columns, out
}
