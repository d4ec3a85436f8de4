package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/ports"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Tile is one dashboard count card: a backend collection fetch plus a
// JMESPath expression reducing the response to a number.
type Tile struct {
	Label string
	Path  string
	Query url.Values
	Expr  string
}

// TileCount is a rendered tile. Fetch or evaluation failures leave Count
// zero and set Err; the dashboard renders a dash instead of a number.
type TileCount struct {
	Label string
	Count int64
	Err   error
}

// Role-specific tile sets for the three console dashboards. Paths and
// filters follow the backend's collection endpoints.
var (
	PortalTiles = []Tile{
		{Label: "My Documents", Path: "/documents/my", Expr: "length(@)"},
		{Label: "Pending", Path: "/documents/my", Expr: "length([?status=='PENDING'])"},
		{Label: "Approved", Path: "/documents/my", Expr: "length([?status=='APPROVED'])"},
		{Label: "Rejected", Path: "/documents/my", Expr: "length([?status=='REJECTED'])"},
	}

	BackOfficeTiles = []Tile{
		{Label: "Pending Approvals", Path: "/documents/pending", Expr: "length(@)"},
		{Label: "Awaiting Signature", Path: "/signatures/pending", Expr: "length(@)"},
		{Label: "Shared Today", Path: "/documents/shared", Expr: "length(@)"},
		{Label: "Document Types", Path: "/document-types", Expr: "length(@)"},
	}

	AdminTiles = []Tile{
		{Label: "Users", Path: "/users", Expr: "length(@)"},
		{Label: "Active Users", Path: "/users", Expr: "length([?enabled])"},
		{Label: "Institutions", Path: "/institutions", Expr: "length(@)"},
		{Label: "Workflows", Path: "/workflows", Expr: "length(@)"},
	}
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Client    ports.BackendClient
	Evaluator JMESPathEvaluator
	Logger    *slog.Logger
}

// DashboardService aggregates backend collections into the count cards shown
// on the console dashboards. Tiles are fetched concurrently; a failed tile
// degrades to a dash rather than failing the whole page. A backend 401
// aborts the page so the caller can clear the session.
type DashboardService struct {
	client ports.BackendClient
	jems   JMESPathEvaluator
	log    *slog.Logger
}

// NewDashboardService constructs a new service.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{client: opts.Client, jems: jems, log: logger}
}

// TilesFor picks the tile set matching the session's strongest role,
// mirroring the landing-page precedence.
func TilesFor(sess *domainauth.Session) []Tile {
	switch {
	case sess.HasRole(domainauth.RoleAdministrator):
		return AdminTiles
	case sess.HasRole(domainauth.RoleBackOffice):
		return BackOfficeTiles
	default:
		return PortalTiles
	}
}

// Counts fetches every tile concurrently with the session's bearer token and
// reduces each response through its JMESPath expression.
func (s *DashboardService) Counts(ctx context.Context, token string, tiles []Tile) ([]TileCount, error) {
	results := make([]TileCount, len(tiles))

	g, gctx := errgroup.WithContext(ctx)
	for i, tile := range tiles {
		g.Go(func() error {
			count, err := s.countTile(gctx, token, tile)
			if err != nil {
				// A rejected token means the whole session is dead, not just
				// this tile.
				if errors.Is(err, ports.ErrUnauthorized) {
					return err
				}
				s.log.Warn("dashboard tile failed", "tile", tile.Label, "error", err)
				results[i] = TileCount{Label: tile.Label, Err: err}
				return nil
			}
			results[i] = TileCount{Label: tile.Label, Count: count}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *DashboardService) countTile(ctx context.Context, token string, tile Tile) (int64, error) {
	var payload any
	call := ports.BackendCall{
		Path:  tile.Path,
		Token: token,
		Query: tile.Query,
		Out:   &payload,
	}
	if err := s.client.Get(ctx, call); err != nil {
		return 0, fmt.Errorf("fetch %s: %w", tile.Path, err)
	}

	value, err := s.jems.Evaluate(tile.Expr, payload)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", tile.Expr, err)
	}

	return coerceCount(value)
}

// UnreadNotifications returns the unread count for the header badge. Errors
// degrade to zero except a 401, which propagates.
func (s *DashboardService) UnreadNotifications(ctx context.Context, token string) (int64, error) {
	var payload any
	call := ports.BackendCall{
		Path:  "/notifications/unread-count",
		Token: token,
		Out:   &payload,
	}
	if err := s.client.Get(ctx, call); err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			return 0, err
		}
		s.log.Warn("notification count failed", "error", err)
		return 0, nil
	}

	// The backend answers either a bare number or {"count": n}.
	value, err := s.jems.Evaluate("count", payload)
	if err != nil || value == nil {
		value = payload
	}

	count, err := coerceCount(value)
	if err != nil {
		s.log.Warn("notification count malformed", "error", err)
		return 0, nil
	}
	return count, nil
}

// coerceCount turns a JMESPath result into an integer count. JSON numbers
// decode as float64; a slice result counts its elements.
func coerceCount(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case []any:
		return int64(len(v)), nil
	default:
		return 0, fmt.Errorf("not a count: %T", value)
	}
}
