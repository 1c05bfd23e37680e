// Package credentials submits website-specific credentials to the backend
// vault and returns the scraped deals for that website.
package credentials

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
)

// Error code the backend may attach to a 401 when the website-specific
// credentials were wrong. Matching on it is preferred over the legacy
// message substrings below.
const codeInvalidWebsiteCredentials = "invalid_website_credentials"

// Legacy compatibility shim: older backends only distinguish a website
// credential failure from a session failure by the error message text.
var invalidCredentialMessages = []string{
	"Invalid username or password for this website",
	"Invalid username",
	"Invalid password",
}

// SubmitRequest carries the credentials for one website.
type SubmitRequest struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitResponse is the backend's answer to a successful submission: an
// access token for the website session and the deals scraped from it.
type SubmitResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	Deals   []string `json:"deals"`
}

// Service wraps the credential submission endpoint.
type Service struct {
	client   *api.Client
	sessions *session.Manager
}

// NewService creates a credentials service.
func NewService(client *api.Client, sessions *session.Manager) *Service {
	return &Service{client: client, sessions: sessions}
}

// Submit sends website credentials to the backend. A 401 is inspected
// before the shared session policy applies: when the backend rejected the
// website-specific username/password the stored session is left untouched
// and ErrInvalidWebsiteCredentials comes back, so the user stays logged in.
// Any other 401 clears the session and yields ErrSessionExpired.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if _, ok := s.sessions.Token(); !ok {
		return nil, errors.ErrUnauthenticated
	}

	req.Website = strings.ToLower(req.Website)

	var resp SubmitResponse
	err := s.client.Do(ctx, http.MethodPost, "/credentials/submit", req, &resp)
	if err == nil {
		return &resp, nil
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusUnauthorized {
			if isWebsiteCredentialFailure(statusErr) {
				if statusErr.Message != "" {
					return nil, errors.Wrapf(errors.ErrInvalidWebsiteCredentials, "%s", statusErr.Message)
				}
				return nil, errors.ErrInvalidWebsiteCredentials
			}
			s.sessions.Clear()
			return nil, errors.Wrapf(errors.ErrSessionExpired, "please login again")
		}
		if statusErr.Message != "" {
			return nil, errors.Wrapf(errors.ErrRequestFailed, "%s", statusErr.Message)
		}
		return nil, errors.Wrapf(errors.ErrRequestFailed, "status %d", statusErr.StatusCode)
	}
	if errors.Is(err, errors.ErrTimeout) {
		return nil, err
	}
	return nil, errors.Wrapf(errors.ErrRequestFailed, "%v", err)
}

func isWebsiteCredentialFailure(statusErr *api.StatusError) bool {
	if statusErr.ErrCode != "" {
		return statusErr.ErrCode == codeInvalidWebsiteCredentials
	}
	for _, fragment := range invalidCredentialMessages {
		if strings.Contains(statusErr.Message, fragment) {
			return true
		}
	}
	return false
}
