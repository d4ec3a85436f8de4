package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/efiling/console/internal/domain/auth"
	"github.com/efiling/console/internal/mocks"
	"github.com/efiling/console/internal/ports"
)

func respondWith(payload any) func(context.Context, ports.BackendCall) error {
	return func(_ context.Context, call ports.BackendCall) error {
		out, ok := call.Out.(*any)
		if !ok {
			return fmt.Errorf("unexpected Out type %T", call.Out)
		}
		*out = payload
		return nil
	}
}

func TestDashboardService_Counts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockBackendClient(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Client: client})

	documents := []any{
		map[string]any{"status": "PENDING"},
		map[string]any{"status": "PENDING"},
		map[string]any{"status": "APPROVED"},
	}

	client.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, call ports.BackendCall) error {
			assert.Equal(t, "bearer-token", call.Token)
			assert.Equal(t, "/documents/my", call.Path)
			return respondWith(documents)(context.Background(), call)
		}).Times(2)

	tiles := []Tile{
		{Label: "My Documents", Path: "/documents/my", Expr: "length(@)"},
		{Label: "Pending", Path: "/documents/my", Expr: "length([?status=='PENDING'])"},
	}

	counts, err := svc.Counts(context.Background(), "bearer-token", tiles)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "My Documents", counts[0].Label)
	assert.EqualValues(t, 3, counts[0].Count)
	assert.Equal(t, "Pending", counts[1].Label)
	assert.EqualValues(t, 2, counts[1].Count)
}

func TestDashboardService_Counts_TileFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockBackendClient(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Client: client})

	client.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, call ports.BackendCall) error {
			if call.Path == "/broken" {
				return errors.New("backend timeout")
			}
			return respondWith([]any{map[string]any{}})(context.Background(), call)
		}).Times(2)

	tiles := []Tile{
		{Label: "Healthy", Path: "/healthy", Expr: "length(@)"},
		{Label: "Broken", Path: "/broken", Expr: "length(@)"},
	}

	counts, err := svc.Counts(context.Background(), "token", tiles)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.EqualValues(t, 1, counts[0].Count)
	assert.NoError(t, counts[0].Err)
	assert.Error(t, counts[1].Err)
	assert.Zero(t, counts[1].Count)
}

func TestDashboardService_Counts_UnauthorizedAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockBackendClient(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Client: client})

	client.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("backend returned 401: %w", ports.ErrUnauthorized)).
		AnyTimes()

	_, err := svc.Counts(context.Background(), "stale-token", PortalTiles)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrUnauthorized)
}

func TestDashboardService_UnreadNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockBackendClient(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Client: client})

	t.Run("envelope", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(respondWith(map[string]any{"count": float64(5)}))

		count, err := svc.UnreadNotifications(context.Background(), "token")
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})

	t.Run("bare number", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(respondWith(float64(2)))

		count, err := svc.UnreadNotifications(context.Background(), "token")
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("fetch failure degrades to zero", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(errors.New("backend timeout"))

		count, err := svc.UnreadNotifications(context.Background(), "token")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unauthorized propagates", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("401: %w", ports.ErrUnauthorized))

		_, err := svc.UnreadNotifications(context.Background(), "token")
		assert.ErrorIs(t, err, ports.ErrUnauthorized)
	})
}

func TestTilesFor(t *testing.T) {
	admin := &domainauth.Session{
		AccessToken: "t",
		Roles:       []domainauth.Role{domainauth.RoleAdministrator, domainauth.RoleBackOffice},
	}
	backoffice := &domainauth.Session{
		AccessToken: "t",
		Roles:       []domainauth.Role{domainauth.RoleBackOffice},
	}
	portal := &domainauth.Session{
		AccessToken: "t",
		Roles:       []domainauth.Role{domainauth.RoleExternalUser},
	}

	assert.Equal(t, AdminTiles, TilesFor(admin))
	assert.Equal(t, BackOfficeTiles, TilesFor(backoffice))
	assert.Equal(t, PortalTiles, TilesFor(portal))
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"nil", nil, 0, false},
		{"float64", float64(7), 7, false},
		{"int", 3, 3, false},
		{"int64", int64(9), 9, false},
		{"slice", []any{1, 2}, 2, false},
		{"string", "nope", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceCount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJMESPathLibEvaluator(t *testing.T) {
	eval := jmespathLibEvaluator{}

	assert.NoError(t, eval.Validate(""))
	assert.NoError(t, eval.Validate("length(@)"))
	assert.Error(t, eval.Validate("[?"))

	out, err := eval.Evaluate("length([?status=='PENDING'])", []any{
		map[string]any{"status": "PENDING"},
		map[string]any{"status": "APPROVED"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out)
}
