package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
)

type detailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *User  `json:"data"`
}

type listResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Data    []User `json:"data"`
}

// Service wraps the user endpoints of the Site Crawler API.
type Service struct {
	client   *api.Client
	sessions *session.Manager
}

// NewService creates a user service.
func NewService(client *api.Client, sessions *session.Manager) *Service {
	return &Service{client: client, sessions: sessions}
}

// Update modifies the given user's profile. On success the stored session
// user is overwritten with the fresh record so gated views pick up the
// change on the next notification.
func (s *Service) Update(ctx context.Context, userID int, update Update) (*User, error) {
	var resp detailResponse
	path := fmt.Sprintf("/users/%d", userID)
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodPut, path, update, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		if resp.Message != "" {
			return nil, errors.Wrapf(errors.ErrRequestFailed, "%s", resp.Message)
		}
		return nil, errors.Wrapf(errors.ErrRequestFailed, "failed to update user")
	}

	if err := s.sessions.SetUser(resp.Data); err != nil {
		return nil, errors.Wrapf(err, "[Service Update] refresh stored user")
	}
	return resp.Data, nil
}

// Get fetches one user by id.
func (s *Service) Get(ctx context.Context, userID int) (*User, error) {
	var resp detailResponse
	path := fmt.Sprintf("/users/%d", userID)
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, errors.Wrapf(errors.ErrRequestFailed, "user %d not found", userID)
	}
	return resp.Data, nil
}

// List fetches all users. Requires an account the backend considers an
// administrator.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var resp listResponse
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateUser registers a new user.
func (s *Service) CreateUser(ctx context.Context, create Create) (*User, error) {
	var resp detailResponse
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodPost, "/users", create, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		if resp.Message != "" {
			return nil, errors.Wrapf(errors.ErrRequestFailed, "%s", resp.Message)
		}
		return nil, errors.Wrapf(errors.ErrRequestFailed, "failed to create user")
	}
	return resp.Data, nil
}

// Delete soft-deletes a user on the backend.
func (s *Service) Delete(ctx context.Context, userID int) error {
	var resp detailResponse
	path := fmt.Sprintf("/users/%d", userID)
	if err := s.client.DoAuthed(ctx, s.sessions, http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Message != "" {
			return errors.Wrapf(errors.ErrRequestFailed, "%s", resp.Message)
		}
		return errors.Wrapf(errors.ErrRequestFailed, "failed to delete user %d", userID)
	}
	return nil
}
