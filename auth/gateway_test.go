package auth_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/auth"
	"github.com/jrsteele09/go-crawler-client/internal/apitest"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
	fakesessionrepo "github.com/jrsteele09/go-crawler-client/session/repofakes"
)

// testFixture holds the gateway under test plus the backend and store it
// talks to.
type testFixture struct {
	backend  *apitest.Backend
	repo     *fakesessionrepo.FakeSessionRepo
	sessions *session.Manager
	gateway  *auth.Gateway
}

func setupTestFixture(t *testing.T, options ...auth.Option) *testFixture {
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
		gateway:  auth.New(client, sessions, options...),
	}
}

func TestLoginSuccess(t *testing.T) {
	f := setupTestFixture(t)

	user, err := f.gateway.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	require.True(t, user.IsVerified)

	// Token is stored separately and stripped from the user blob.
	token, ok := f.gateway.Token()
	require.True(t, ok)
	require.NotEmpty(t, token)

	raw, ok, err := f.repo.Get(session.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.NotContains(t, stored, "token")

	current, err := f.gateway.CurrentUser()
	require.NoError(t, err)
	require.Equal(t, "a@b.com", current.Email)
	require.True(t, f.gateway.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	require.False(t, f.gateway.IsAuthenticated())
}

func TestLoginTimeout(t *testing.T) {
	f := setupTestFixture(t, auth.WithLoginTimeout(50*time.Millisecond))
	f.backend.LoginDelay = 500 * time.Millisecond

	_, err := f.gateway.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, errors.ErrTimeout)
	require.NotErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.True(t, f.gateway.IsAuthenticated())

	f.gateway.Logout()

	require.False(t, f.gateway.IsAuthenticated())
	_, ok := f.gateway.Token()
	require.False(t, ok)
	require.Equal(t, 0, f.repo.Len())
}

func TestLoginLogoutNotifiesSubscribers(t *testing.T) {
	f := setupTestFixture(t)

	authStates := []bool{}
	unsubscribe := f.sessions.Subscribe(func() {
		authStates = append(authStates, f.sessions.IsAuthenticated())
	})
	defer unsubscribe()

	_, err := f.gateway.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	f.gateway.Logout()

	require.Equal(t, []bool{true, false}, authStates)
}
