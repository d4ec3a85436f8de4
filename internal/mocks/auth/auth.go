package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.AuthBackend  = (*MockAuthBackend)(nil)
	_ ports.SSOProvider  = (*MockSSOProvider)(nil)
)

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	// SaveErr, when set, is returned by Save instead of storing.
	SaveErr error

	// SaveCalls counts Save invocations, including failed ones.
	SaveCalls int
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// MockAuthBackend simulates the e-filing credential API. Each method records
// its call count so tests can assert that no network round trip happened.
type MockAuthBackend struct {
	AuthenticateFunc   func(ctx context.Context, creds domainauth.Credentials) (domainauth.Profile, error)
	RegisterFunc       func(ctx context.Context, signup domainauth.Signup) error
	ChangePasswordFunc func(ctx context.Context, token string, req domainauth.ChangePasswordRequest) error

	// DefaultProfile is returned by Authenticate when AuthenticateFunc is nil.
	DefaultProfile domainauth.Profile

	AuthenticateCalls   int
	RegisterCalls       int
	ChangePasswordCalls int

	// LastToken holds the bearer token of the most recent ChangePassword call.
	LastToken string
	// LastChangeRequest holds the payload of the most recent ChangePassword call.
	LastChangeRequest domainauth.ChangePasswordRequest
}

// NewMockAuthBackend creates a MockAuthBackend with a sensible default profile.
func NewMockAuthBackend() *MockAuthBackend {
	return &MockAuthBackend{
		DefaultProfile: domainauth.Profile{
			AccessToken:  "mock-access-token",
			RefreshToken: "mock-refresh-token",
			TokenType:    "Bearer",
			UserID:       1,
			Username:     "mockuser",
			Email:        "mock.user@example.com",
			Roles:        []domainauth.Role{domainauth.RoleExternalUser},
		},
	}
}

func (m *MockAuthBackend) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Profile, error) {
	m.AuthenticateCalls++
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	p := m.DefaultProfile
	if p.Username == "" {
		p.Username = creds.Username
	}
	return p, nil
}

func (m *MockAuthBackend) Register(ctx context.Context, signup domainauth.Signup) error {
	m.RegisterCalls++
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, signup)
	}
	return nil
}

func (m *MockAuthBackend) ChangePassword(ctx context.Context, token string, req domainauth.ChangePasswordRequest) error {
	m.ChangePasswordCalls++
	m.LastToken = token
	m.LastChangeRequest = req
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, token, req)
	}
	return nil
}

// MockSSOProvider simulates an IdP for tests with deterministic state/nonce
// handling.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:      "mock-user-1",
			Username:    "mockuser",
			Email:       "mock.user@example.com",
			Groups:      []string{"efiling-external"},
			AccessToken: "mock-sso-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID:      "mock-user-1",
			Username:    "mockuser",
			Email:       "mock.user@example.com",
			Groups:      []string{"efiling-external"},
			AccessToken: "mock-sso-token",
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}
