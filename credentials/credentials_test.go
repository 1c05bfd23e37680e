package credentials_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/credentials"
	"github.com/jrsteele09/go-crawler-client/internal/apitest"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
	fakesessionrepo "github.com/jrsteele09/go-crawler-client/session/repofakes"
)

type testFixture struct {
	backend  *apitest.Backend
	repo     *fakesessionrepo.FakeSessionRepo
	sessions *session.Manager
	service  *credentials.Service
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
		service:  credentials.NewService(client, sessions),
	}
}

func (f *testFixture) loginWithToken(t *testing.T, token string) {
	t.Helper()
	user := f.backend.User
	require.NoError(t, f.sessions.SetSession(&user, token))
}

func TestSubmitSuccess(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	resp, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "FO1", // lowercased before sending
		Username: "fo1_test_user@whatever.com",
		Password: "Test123!",
	})
	require.NoError(t, err)
	require.Equal(t, "Credentials submitted successfully", resp.Message)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.Deals)
}

func TestSubmitNoToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "fo1",
		Username: "u",
		Password: "p",
	})
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.Equal(t, 0, f.backend.TotalRequests())
}

func TestSubmitInvalidWebsiteCredentials(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	_, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "fo1",
		Username: "fo1_test_user@whatever.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, errors.ErrInvalidWebsiteCredentials)

	// A website credential failure must NOT log the user out.
	require.True(t, f.sessions.IsAuthenticated())
	_, ok := f.sessions.Token()
	require.True(t, ok)
}

// Website passwords are case-sensitive; a correct password in the wrong
// case is rejected like any other bad credential.
func TestSubmitPasswordWrongCase(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	_, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "fo1",
		Username: "fo1_test_user@whatever.com",
		Password: "test123!",
	})
	require.ErrorIs(t, err, errors.ErrInvalidWebsiteCredentials)
	require.True(t, f.sessions.IsAuthenticated())
}

func TestSubmitExpiredSession(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(-time.Hour))

	_, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "fo1",
		Username: "fo1_test_user@whatever.com",
		Password: "Test123!",
	})
	require.ErrorIs(t, err, errors.ErrSessionExpired)

	// Any other 401 clears the whole session.
	require.False(t, f.sessions.IsAuthenticated())
	require.Equal(t, 0, f.repo.Len())
}

// A backend that reports a structured error code is trusted over the
// message text.
func TestSubmitStructuredErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"rejected","code":"invalid_website_credentials"}`))
	}))
	defer server.Close()

	sessions := session.NewManager(fakesessionrepo.NewFakeSessionRepo())
	user := apitest.New().User
	require.NoError(t, sessions.SetSession(&user, "tok1"))
	service := credentials.NewService(api.New(server.URL, sessions), sessions)

	_, err := service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "fo1",
		Username: "u",
		Password: "p",
	})
	require.ErrorIs(t, err, errors.ErrInvalidWebsiteCredentials)
	require.True(t, sessions.IsAuthenticated())
}

func TestSubmitUnknownWebsite(t *testing.T) {
	f := setupTestFixture(t)
	f.loginWithToken(t, f.backend.MintToken(time.Hour))

	_, err := f.service.Submit(context.Background(), credentials.SubmitRequest{
		Website:  "nope",
		Username: "u",
		Password: "p",
	})
	require.ErrorIs(t, err, errors.ErrRequestFailed)
	require.True(t, f.sessions.IsAuthenticated())
}
