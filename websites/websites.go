// Package websites lists the external websites the logged-in user is
// authorized to submit credentials for.
package websites

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/session"
)

// Website is one entry of the user's authorized website list.
type Website struct {
	ID        int     `json:"id"`
	WebsiteID string  `json:"website_id"` // Short identifier, e.g. "fo1"
	Name      string  `json:"name"`
	URL       *string `json:"url"`
	Active    bool    `json:"active"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

type listResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []Website `json:"data"`
}

// Service wraps the website listing endpoint.
type Service struct {
	client   *api.Client
	sessions *session.Manager
}

// NewService creates a website service.
func NewService(client *api.Client, sessions *session.Manager) *Service {
	return &Service{client: client, sessions: sessions}
}

// List returns the websites the current user may access. It follows the
// shared authenticated-request policy: no local token fails fast and a 401
// clears the session.
func (s *Service) List(ctx context.Context) ([]Website, error) {
	var resp listResponse
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodGet, "/websites/user", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
