package auth

// Package auth contains domain-level types for sessions and authorization
// claims. It is pure and free of transport/adapter concerns.

import "time"

// Role is a coarse-grained authorization claim issued by the e-filing
// backend. Kept in string form for easy persistence and comparison.
type Role string

const (
	RoleAdministrator         Role = "ROLE_ADMINISTRATOR"
	RoleBackOffice            Role = "ROLE_BACK_OFFICE"
	RoleExternalUser          Role = "ROLE_EXTERNAL_USER"
	RoleExternalInstitutional Role = "ROLE_EXTERNAL_INSTITUTIONAL"
)

// Credentials are the caller-supplied login inputs. They are never persisted
// beyond the login call.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup is the self-registration payload forwarded to the backend. The
// backend mails generated credentials; signup never authenticates the caller.
type Signup struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	InstitutionType string `json:"institutionType,omitempty"`
}

// Profile is the backend's login response: bearer tokens plus the cached
// identity and claims. Field names follow the backend wire format.
type Profile struct {
	AccessToken        string   `json:"accessToken"`
	RefreshToken       string   `json:"refreshToken"`
	TokenType          string   `json:"tokenType,omitempty"`
	UserID             int64    `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	Roles              []Role   `json:"roles"`
	Permissions        []string `json:"permissions"`
	MustChangePassword bool     `json:"mustChangePassword"`
}

// ChangePasswordRequest is the backend change-password payload. The current
// password is blank during a forced change; the backend skips verifying it.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Identity is the authenticated principal returned by an SSO provider.
// Adapters map provider-specific claims into this shape; a RoleMapper turns
// Groups into Role claims.
type Identity struct {
	UserID      string
	Username    string
	Email       string
	Groups      []string
	AccessToken string
	ExpiresAt   time.Time
}

// Session is the record the console persists for an authenticated user: the
// backend tokens plus the cached profile. ID is an opaque identifier carried
// in the session cookie; everything else mirrors the login response.
//
// A session is considered authenticated iff AccessToken is non-empty,
// regardless of any other stored fields.
type Session struct {
	ID                 string    `json:"id"`
	AccessToken        string    `json:"access_token"`
	RefreshToken       string    `json:"refresh_token"`
	UserID             int64     `json:"user_id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Roles              []Role    `json:"roles"`
	Permissions        []string  `json:"permissions"`
	MustChangePassword bool      `json:"must_change_password"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// NewSession builds a Session from a backend login profile. The caller
// assigns the opaque ID and expiry.
func NewSession(id string, p Profile, expiresAt time.Time) Session {
	return Session{
		ID:                 id,
		AccessToken:        p.AccessToken,
		RefreshToken:       p.RefreshToken,
		UserID:             p.UserID,
		Username:           p.Username,
		Email:              p.Email,
		Roles:              append([]Role(nil), p.Roles...),
		Permissions:        append([]string(nil), p.Permissions...),
		MustChangePassword: p.MustChangePassword,
		ExpiresAt:          expiresAt,
	}
}

// IsAuthenticated reports whether the session carries a bearer credential.
// Nil-safe: callers holding a missing session get false, never a panic.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// HasRole reports whether the session holds the given role claim.
// Returns false on a nil session or empty claim set.
func (s *Session) HasRole(role Role) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session holds at least one of the given
// role claims.
func (s *Session) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the session holds the given fine-grained
// permission claim. Checked independently of roles.
func (s *Session) HasPermission(permission string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
