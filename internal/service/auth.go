package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/ports"
)

// ErrValidation marks errors caused by bad user input. Handlers surface the
// message on the form instead of a 500. Matching uses errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrSessionExpired is returned by GetSession when the stored session has
// passed its expiry.
var ErrSessionExpired = errors.New("session expired")

const (
	minUsernameLen = 3
	minPasswordLen = 6

	// DefaultSessionTTL bounds a console session when config does not say
	// otherwise.
	DefaultSessionTTL = 8 * time.Hour
)

// AuthServiceOptions groups dependencies for AuthService. Provider and Roles
// are only needed when the console runs in an SSO auth mode.
type AuthServiceOptions struct {
	Backend    ports.AuthBackend
	Sessions   ports.SessionStore
	Provider   ports.SSOProvider
	Roles      ports.RoleMapper
	SessionTTL time.Duration
}

// AuthService orchestrates the console's authentication flows: credential
// login against the e-filing backend, session persistence, logout, and the
// forced password change. It is the only writer of session records.
type AuthService struct {
	backend  ports.AuthBackend
	sessions ports.SessionStore
	provider ports.SSOProvider
	roles    ports.RoleMapper
	ttl      time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		provider: opts.Provider,
		roles:    opts.Roles,
		ttl:      ttl,
	}
}

// Login authenticates the credentials against the backend and persists a new
// session. The returned session carries everything the login response held,
// including the forced-password-change flag.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	if err := validateCredentials(creds); err != nil {
		return domainauth.Session{}, err
	}

	profile, err := s.backend.Authenticate(ctx, creds)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("authenticate: %w", err)
	}

	sess := domainauth.NewSession(generateSessionID(), profile, time.Now().Add(s.ttl))
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", saveErr)
	}

	return sess, nil
}

// Signup submits a self-registration payload. It never authenticates the
// caller; users log in separately after registering.
func (s *AuthService) Signup(ctx context.Context, signup domainauth.Signup) error {
	if err := validateSignup(signup); err != nil {
		return err
	}

	if err := s.backend.Register(ctx, signup); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID. Absent, corrupt, or expired records
// report an error; a nil error guarantees an authenticated-capable session.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session. Logging out twice, or with no session at all,
// succeeds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // nothing to log out
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// ChangePassword validates the new password locally, submits the change with
// the session's bearer token, and clears the forced-change flag on the cached
// session in one store write. Local validation failures never reach the
// backend.
func (s *AuthService) ChangePassword(ctx context.Context, sessionID string, req domainauth.ChangePasswordRequest) error {
	if err := ValidateNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.backend.ChangePassword(ctx, session.AccessToken, req); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	// The backend accepted the change; the cached profile is now stale only
	// in this one flag. Flip it locally rather than re-fetching the profile.
	session.MustChangePassword = false
	if saveErr := s.sessions.Save(ctx, *session); saveErr != nil {
		return fmt.Errorf("save session: %w", saveErr)
	}

	return nil
}

// BeginSSOResult contains the result of beginning an SSO login flow.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates an SSO flow and returns the provider auth URL with state
// and nonce. Fails when the console is not configured for SSO.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if s.provider == nil {
		return nil, errors.New("sso is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin sso flow: %w", err)
	}

	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOInput groups parameters for completing an SSO login flow.
type CompleteSSOInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO exchanges the authorization code for an identity, maps IdP
// groups to console roles, and persists a session.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteSSOInput) (domainauth.Session, error) {
	if s.provider == nil {
		return domainauth.Session{}, errors.New("sso is not configured")
	}
	if input.Code == "" {
		return domainauth.Session{}, errors.New("authorization code is required")
	}
	if input.State == "" {
		return domainauth.Session{}, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return domainauth.Session{}, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	var roles []domainauth.Role
	if s.roles != nil {
		roles = s.roles.Map(identity.Groups)
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.ttl)
	}

	session := domainauth.Session{
		ID:          generateSessionID(),
		AccessToken: identity.AccessToken,
		Username:    identity.Username,
		Email:       identity.Email,
		Roles:       roles,
		ExpiresAt:   expiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", saveErr)
	}

	return session, nil
}

// ValidateNewPassword applies the console-side password rules: minimum
// length and confirmation match. Runs before any network round trip.
func ValidateNewPassword(newPassword, confirmPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: new password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

func validateCredentials(creds domainauth.Credentials) error {
	if len(strings.TrimSpace(creds.Username)) < minUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters", ErrValidation, minUsernameLen)
	}
	if len(creds.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

func validateSignup(signup domainauth.Signup) error {
	if len(strings.TrimSpace(signup.Username)) < minUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters", ErrValidation, minUsernameLen)
	}
	if signup.Email == "" || !strings.Contains(signup.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if strings.TrimSpace(signup.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrValidation)
	}
	if strings.TrimSpace(signup.LastName) == "" {
		return fmt.Errorf("%w: last name is required", ErrValidation)
	}
	// Password is optional on signup: the backend generates one and mails it
	// when absent.
	if signup.Password != "" && len(signup.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// UUIDs are URL-safe and have good entropy
	return uuid.New().String()
}
