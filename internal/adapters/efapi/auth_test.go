package efapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/efiling/console/internal/domain/auth"
)

func TestClient_Authenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds domainauth.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != "ana" || creds.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(domainauth.Profile{
			AccessToken:        "acc",
			RefreshToken:       "ref",
			UserID:             7,
			Username:           "ana",
			Email:              "ana@example.com",
			Roles:              []domainauth.Role{domainauth.RoleExternalUser},
			Permissions:        []string{"documents:read"},
			MustChangePassword: true,
		})
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)

	profile, err := client.Authenticate(context.Background(), domainauth.Credentials{
		Username: "ana", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "acc", profile.AccessToken)
	assert.Equal(t, "ref", profile.RefreshToken)
	assert.Equal(t, int64(7), profile.UserID)
	assert.True(t, profile.MustChangePassword)
	assert.Equal(t, []domainauth.Role{domainauth.RoleExternalUser}, profile.Roles)

	_, err = client.Authenticate(context.Background(), domainauth.Credentials{
		Username: "ana", Password: "wrong",
	})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad credentials", apiErr.Message())
}

func TestClient_Register(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`"User registered successfully"`))
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	err = client.Register(context.Background(), domainauth.Signup{
		Username: "new-user", Email: "new@example.com", FirstName: "New", LastName: "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/signup", gotPath)
}

func TestClient_ChangePassword(t *testing.T) {
	var gotAuth string
	var gotReq domainauth.ChangePasswordRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	err = client.ChangePassword(context.Background(), "tok-1", domainauth.ChangePasswordRequest{
		NewPassword: "longenough", ConfirmPassword: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Empty(t, gotReq.CurrentPassword)
	assert.Equal(t, "longenough", gotReq.NewPassword)
}
