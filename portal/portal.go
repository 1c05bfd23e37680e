// Package portal drives the backend's website portal endpoints: logging
// into a supported external website through the backend's scraper and
// downloading deal files it discovered. These endpoints sit outside the
// application's bearer-token auth; a portal login failure never touches
// the stored application session.
package portal

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/jrsteele09/go-crawler-client/api"
	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

// File is a downloadable file attached to a deal.
type File struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// Deal is one deal scraped from a portal website.
type Deal struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Owner    string `json:"owner"`
	Files    []File `json:"files"`
}

// LoginResult is the backend's answer to a successful portal login. The
// session id identifies the backend-held scraper session for follow-up
// downloads.
type LoginResult struct {
	Session   string         `json:"session"`
	SessionID string         `json:"session_id"`
	User      map[string]any `json:"user"`
	Deals     []Deal         `json:"deals"`
}

type loginRequest struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Service wraps the portal login and file download endpoints.
type Service struct {
	client *api.Client
}

// NewService creates a portal service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Login authenticates against an external portal website via the backend
// scraper and returns the deals it found. Bad portal credentials yield
// ErrInvalidWebsiteCredentials; an unreachable portal yields
// ErrRequestFailed with the backend's message.
func (s *Service) Login(ctx context.Context, website, username, password string) (*LoginResult, error) {
	req := loginRequest{
		Website:  strings.ToLower(strings.TrimSpace(website)),
		Username: username,
		Password: password,
	}

	var result LoginResult
	err := s.client.Do(ctx, http.MethodPost, "/login", req, &result)
	if err == nil {
		return &result, nil
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return nil, errors.Wrapf(errors.ErrInvalidWebsiteCredentials, "bad credentials")
		case http.StatusBadGateway:
			return nil, errors.Wrapf(errors.ErrRequestFailed, "website unavailable")
		default:
			if statusErr.Message != "" {
				return nil, errors.Wrapf(errors.ErrRequestFailed, "%s", statusErr.Message)
			}
			return nil, errors.Wrapf(errors.ErrRequestFailed, "status %d", statusErr.StatusCode)
		}
	}
	if errors.Is(err, errors.ErrTimeout) {
		return nil, err
	}
	return nil, errors.Wrapf(errors.ErrRequestFailed, "%v", err)
}

// Download streams a deal file through the backend into w. The session id
// from a prior portal login lets the backend reuse its authenticated
// scraper session; it may be empty for public files. The returned name is
// taken from the Content-Disposition header when present, else derived
// from the file URL.
func (s *Service) Download(ctx context.Context, fileURL, sessionID string, w io.Writer) (string, error) {
	if fileURL == "" {
		return "", errors.Wrapf(errors.ErrRequestFailed, "no download URL available")
	}

	query := url.Values{}
	query.Set("url", fileURL)
	if sessionID != "" {
		query.Set("session_id", sessionID)
	}

	resp, err := s.client.Get(ctx, "/download?"+query.Encode())
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			return "", errors.Wrapf(errors.ErrRequestFailed, "%s", statusErr.Message)
		}
		if errors.Is(err, errors.ErrTimeout) {
			return "", err
		}
		return "", errors.Wrapf(errors.ErrRequestFailed, "%v", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", errors.Wrapf(err, "[Service Download] stream file")
	}
	return downloadFilename(resp, fileURL), nil
}

func downloadFilename(resp *http.Response, fileURL string) string {
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if parsed, err := url.Parse(fileURL); err == nil {
		if name := path.Base(parsed.Path); name != "." && name != "/" && strings.Contains(name, ".") {
			return name
		}
	}
	return "download"
}
