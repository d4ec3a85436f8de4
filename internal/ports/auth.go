package ports

// Package ports defines interfaces (hexagonal ports) for auth and backend
// access. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/efiling/console/internal/domain/auth"
)

// SessionStore persists and retrieves user sessions. Save writes the whole
// session as a single unit; a concurrent Get never observes a partially
// written record. Implementations treat corrupt stored data as absent.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthBackend is the slice of the e-filing REST API that owns credentials.
type AuthBackend interface {
	// Authenticate posts the credentials and returns the backend's login
	// response. Failures propagate the backend's error payload unchanged.
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Profile, error)

	// Register submits a self-registration payload. It never authenticates
	// the caller.
	Register(ctx context.Context, signup domainauth.Signup) error

	// ChangePassword submits a password change on behalf of the bearer token.
	ChangePassword(ctx context.Context, token string, req domainauth.ChangePasswordRequest) error
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes an authentication flow against an IdP.
// Used only when the console runs in SSO mode; password mode authenticates
// through AuthBackend instead.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// RoleMapper maps IdP groups to console role claims.
type RoleMapper interface {
	Map(groups []string) []domainauth.Role
}
