package efapi

import (
	"context"
	"fmt"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/ports"
)

var _ ports.AuthBackend = (*Client)(nil)

// Authenticate posts the credentials to the backend login endpoint and
// returns the full login response. The call is anonymous; backend errors
// (bad credentials, locked account) propagate with their payload.
func (c *Client) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Profile, error) {
	var profile domainauth.Profile
	err := c.Post(ctx, ports.BackendCall{
		Path: "/auth/login",
		Body: creds,
		Out:  &profile,
	})
	if err != nil {
		return domainauth.Profile{}, fmt.Errorf("login: %w", err)
	}
	return profile, nil
}

// Register submits a signup payload. Anonymous by design: the backend mails
// the generated credentials, so a successful signup does not authenticate.
func (c *Client) Register(ctx context.Context, signup domainauth.Signup) error {
	if err := c.Post(ctx, ports.BackendCall{Path: "/auth/signup", Body: signup}); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// ChangePassword submits a password change for the bearer token's account.
func (c *Client) ChangePassword(ctx context.Context, token string, req domainauth.ChangePasswordRequest) error {
	err := c.Post(ctx, ports.BackendCall{
		Path:  "/auth/change-password",
		Token: token,
		Body:  req,
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
