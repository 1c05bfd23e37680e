// Package auth implements the client-side authentication gateway: login
// against the Site Crawler API, logout, and read access to the persisted
// session state.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
	"github.com/jrsteele09/go-crawler-client/users"
)

const defaultLoginTimeout = 10 * time.Second

// Gateway performs login and logout against the backend and populates the
// session store. Read accessors delegate to the session manager so gated
// views and the resource services observe the same state.
type Gateway struct {
	client       *api.Client
	sessions     *session.Manager
	loginTimeout time.Duration
}

// Option defines a function type to modify the Gateway instance.
type Option func(*Gateway)

// WithLoginTimeout overrides the bound on the login network call.
func WithLoginTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.loginTimeout = timeout
	}
}

// New creates an authentication gateway.
func New(client *api.Client, sessions *session.Manager, options ...Option) *Gateway {
	gateway := &Gateway{
		client:       client,
		sessions:     sessions,
		loginTimeout: defaultLoginTimeout,
	}
	for _, opt := range options {
		opt(gateway)
	}
	return gateway
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginUser is the login payload: the user profile plus the bearer token
// the backend piggybacks on it. The token is stripped before the profile
// is stored.
type loginUser struct {
	users.User
	Token string `json:"token"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *loginUser `json:"data"`
}

// Login authenticates against the backend with a bounded wait and stores
// the resulting session. A deadline expiry yields ErrTimeout, a rejection
// or missing profile payload yields ErrInvalidCredentials, and any other
// network or decode failure yields ErrLoginFailed carrying the upstream
// message when one is available.
func (g *Gateway) Login(ctx context.Context, email, password string) (*users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, g.loginTimeout)
	defer cancel()

	var resp loginResponse
	err := g.client.Do(ctx, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, g.mapLoginError(err)
	}

	if !resp.Success || resp.Data == nil {
		if resp.Message != "" {
			return nil, errors.Wrapf(errors.ErrInvalidCredentials, "%s", resp.Message)
		}
		return nil, errors.ErrInvalidCredentials
	}

	user := resp.Data.User
	if err := g.sessions.SetSession(&user, resp.Data.Token); err != nil {
		return nil, errors.Wrapf(err, "[Gateway Login] store session")
	}

	log.Debug().Str("email", user.Email).Msg("Login successful")
	return &user, nil
}

// Logout clears the stored session unconditionally. It never fails.
func (g *Gateway) Logout() {
	g.sessions.Clear()
}

// Token returns the stored bearer token, when present.
func (g *Gateway) Token() (string, bool) {
	return g.sessions.Token()
}

// CurrentUser returns the stored user profile, when present.
func (g *Gateway) CurrentUser() (*users.User, error) {
	return g.sessions.CurrentUser()
}

// IsAuthenticated reports whether a user profile is stored. See
// session.Manager.IsAuthenticated for the token-presence caveat.
func (g *Gateway) IsAuthenticated() bool {
	return g.sessions.IsAuthenticated()
}

func (g *Gateway) mapLoginError(err error) error {
	if errors.Is(err, errors.ErrTimeout) {
		return errors.Wrapf(errors.ErrTimeout, "login: please check your connection and try again")
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			if statusErr.Message != "" {
				return errors.Wrapf(errors.ErrInvalidCredentials, "%s", statusErr.Message)
			}
			return errors.ErrInvalidCredentials
		default:
			if statusErr.Message != "" {
				return errors.Wrapf(errors.ErrLoginFailed, "%s", statusErr.Message)
			}
			return errors.Wrapf(errors.ErrLoginFailed, "server error: %d", statusErr.StatusCode)
		}
	}
	return errors.Wrapf(errors.ErrLoginFailed, "%v", err)
}
