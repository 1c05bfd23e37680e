package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

// Session is the slice of the session manager the authed request policy
// needs: read the token up front, clear everything when the server rejects
// it.
type Session interface {
	TokenSource
	Clear()
}

// DoAuthed wraps Do with the policy shared by every resource service:
//  1. no stored token fails immediately with ErrUnauthenticated, before any
//     network call is made;
//  2. an HTTP 401 clears the whole session and fails with ErrSessionExpired;
//  3. any other failure surfaces as ErrRequestFailed carrying the server
//     message when one was present.
//
// Callers that need their own 401 handling (website credential submission)
// use Do directly.
func (c *Client) DoAuthed(ctx context.Context, sess Session, method, path string, body, out any) error {
	if _, ok := sess.Token(); !ok {
		return errors.ErrUnauthenticated
	}

	err := c.Do(ctx, method, path, body, out)
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusUnauthorized {
			sess.Clear()
			return errors.Wrapf(errors.ErrSessionExpired, "please login again")
		}
		if statusErr.Message != "" {
			return errors.Wrapf(errors.ErrRequestFailed, "%s", statusErr.Message)
		}
		return errors.Wrapf(errors.ErrRequestFailed, "status %d", statusErr.StatusCode)
	}
	if errors.Is(err, errors.ErrTimeout) {
		return err
	}
	return errors.Wrapf(errors.ErrRequestFailed, "%v", err)
}
