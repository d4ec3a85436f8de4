package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/ports"
)

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{
		ID:          "sess-1",
		AccessToken: "token",
		Username:    "clerk",
		Roles:       []domainauth.Role{domainauth.RoleBackOffice},
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestMemorySessionStore_MissingAndEmpty(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Save(ctx, domainauth.Session{AccessToken: "token"})
	require.Error(t, err)
}

func TestMemorySessionStore_DeleteIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "sess-1", AccessToken: "t"}))
	require.NoError(t, store.Delete(ctx, "sess-1"))
	require.NoError(t, store.Delete(ctx, "sess-1"))
	require.NoError(t, store.Delete(ctx, ""))
	assert.Zero(t, store.Len())
}

func TestMockAuthBackend_Defaults(t *testing.T) {
	backend := NewMockAuthBackend()

	profile, err := backend.Authenticate(context.Background(), domainauth.Credentials{
		Username: "clerk",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "mock-access-token", profile.AccessToken)
	assert.Equal(t, 1, backend.AuthenticateCalls)
}

func TestMockAuthBackend_RecordsChangePassword(t *testing.T) {
	backend := NewMockAuthBackend()

	req := domainauth.ChangePasswordRequest{
		NewPassword:     "newpass1",
		ConfirmPassword: "newpass1",
	}
	require.NoError(t, backend.ChangePassword(context.Background(), "bearer-token", req))
	assert.Equal(t, 1, backend.ChangePasswordCalls)
	assert.Equal(t, "bearer-token", backend.LastToken)
	assert.Equal(t, req, backend.LastChangeRequest)
}

func TestMockSSOProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockSSOProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockSSOProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockSSOProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, []string{"efiling-external"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockSSOProvider_CustomFuncs(t *testing.T) {
	provider := &MockSSOProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{UserID: "custom"}, nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, "custom", identity.UserID)
}
