package ports

import (
	"context"
	"errors"
	"net/url"
)

// ErrUnauthorized marks a backend 401. The HTTP layer reacts to it in one
// place: clear the session and send the browser back to the login page.
// Adapter errors wrap it so callers match with errors.Is.
var ErrUnauthorized = errors.New("backend rejected credentials")

// BackendCall describes one request against the e-filing REST API.
// Path is relative to the configured base URL. Token, when non-empty, is
// attached as a bearer credential; anonymous calls leave it blank.
// Body, when non-nil, is JSON-encoded; Out, when non-nil, receives the
// decoded response body.
type BackendCall struct {
	Path  string
	Token string
	Query url.Values
	Body  any
	Out   any
}

// BackendClient dispatches requests to the e-filing REST API, one entry
// point per HTTP verb. Non-2xx responses and transport failures surface as
// errors carrying the backend's status and payload; there is no retry and
// no token refresh.
type BackendClient interface {
	Get(ctx context.Context, call BackendCall) error
	Post(ctx context.Context, call BackendCall) error
	Put(ctx context.Context, call BackendCall) error
	Delete(ctx context.Context, call BackendCall) error
}
