package users_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/internal/apitest"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/internal/utils"
	"github.com/jrsteele09/go-crawler-client/session"
	fakesessionrepo "github.com/jrsteele09/go-crawler-client/session/repofakes"
	"github.com/jrsteele09/go-crawler-client/users"
)

type testFixture struct {
	backend  *apitest.Backend
	repo     *fakesessionrepo.FakeSessionRepo
	sessions *session.Manager
	service  *users.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	backend := apitest.New()
	backend.Start()
	t.Cleanup(backend.Close)

	repo := fakesessionrepo.NewFakeSessionRepo()
	sessions := session.NewManager(repo)
	client := api.New(backend.URL(), sessions)

	return &testFixture{
		backend:  backend,
		repo:     repo,
		sessions: sessions,
		service:  users.NewService(client, sessions),
	}
}

func (f *testFixture) loginWithToken(t *testing.T, token string) {
	t.Helper()
	user := f.backend.User
	require.NoError(t, f.sessions.SetSession(&user, token))
}

func TestUpdateUserRefreshesStoredProfile(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	updated, err := f.service.Update(context.Background(), 1, users.Update{
		Name: utils.Ptr("Jane"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jane", updated.Name)

	// The stored user record is overwritten with the fresh value.
	current, err := f.sessions.CurrentUser()
	require.NoError(t, err)
	require.Equal(t, "Jane", current.Name)
}

func TestUpdateUserNoToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Update(context.Background(), 1, users.Update{Name: utils.Ptr("Jane")})
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.Equal(t, 0, f.backend.TotalRequests())
}

func TestUpdateUserExpiredSession(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(-time.Hour))

	_, err := f.service.Update(context.Background(), 1, users.Update{Name: utils.Ptr("Jane")})
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.False(t, f.sessions.IsAuthenticated())
}

func TestGetUser(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	user, err := f.service.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
}

func TestGetUserNotFound(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	_, err := f.service.Get(context.Background(), 99)
	require.ErrorIs(t, err, errors.ErrRequestFailed)
}

func TestListUsers(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	all, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "a@b.com", all[0].Email)
}

func TestCreateAndDeleteUser(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	created, err := f.service.CreateUser(context.Background(), users.Create{
		Name:     "New",
		LastName: "User",
		Email:    "new@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", created.Email)
	require.NotZero(t, created.ID)

	require.NoError(t, f.service.Delete(context.Background(), created.ID))
}

// A 2xx envelope with success:false is still a failed delete.
func TestDeleteUserRejectedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"User has active crawls"}`))
	}))
	defer server.Close()

	sessions := session.NewManager(fakesessionrepo.NewFakeSessionRepo())
	user := apitest.New().User
	require.NoError(t, sessions.SetSession(&user, "tok1"))
	service := users.NewService(api.New(server.URL, sessions), sessions)

	err := service.Delete(context.Background(), 1)
	require.ErrorIs(t, err, errors.ErrRequestFailed)
	require.ErrorContains(t, err, "User has active crawls")
}
