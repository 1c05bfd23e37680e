package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/users/model"
)

// Manager owns the persisted session pair (user profile, bearer token) and
// notifies subscribers whenever either entry changes. All reads and writes
// go through the injected Repo so the manager stays testable without a real
// on-disk store.
type Manager struct {
	repo Repo
	notifier
}

// NewManager creates a session manager backed by the given store.
func NewManager(repo Repo) *Manager {
	return &Manager{repo: repo}
}

// Token returns the stored bearer token. The boolean reports presence; an
// empty stored value counts as absent.
func (m *Manager) Token() (string, bool) {
	value, ok, err := m.repo.Get(KeyToken)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read token from session store")
		return "", false
	}
	return value, ok && value != ""
}

// CurrentUser returns the stored user profile, or nil when no user is
// stored. A stored value that fails to parse is removed from the store and
// reported as an error rather than returned as a partial record.
func (m *Manager) CurrentUser() (*model.User, error) {
	raw, ok, err := m.repo.Get(KeyUser)
	if err != nil {
		return nil, errors.Wrapf(err, "[Manager CurrentUser] read user entry")
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		if removeErr := m.repo.Remove(KeyUser); removeErr != nil {
			log.Warn().Err(removeErr).Msg("Failed to remove malformed user entry")
		}
		return nil, errors.Wrapf(err, "[Manager CurrentUser] malformed user entry removed")
	}
	return &user, nil
}

// IsAuthenticated reports whether a user profile is stored. Token presence
// is deliberately not part of this check: a stored user with no token still
// counts as authenticated, and the gated API calls are the ones that fail
// in that state. Callers gating views depend on this contract.
func (m *Manager) IsAuthenticated() bool {
	user, err := m.CurrentUser()
	if err != nil || user == nil {
		return false
	}
	if _, ok := m.Token(); !ok {
		log.Warn().Msg("Session has a user but no token; authenticated calls will fail until the next login")
	}
	return true
}

// SetSession overwrites the stored session after a successful login. An
// empty token stores the user entry only. Subscribers are notified once
// both writes complete.
func (m *Manager) SetSession(user *model.User, token string) error {
	if err := m.setUser(user); err != nil {
		return err
	}
	if token != "" {
		if err := m.repo.Set(KeyToken, token); err != nil {
			return errors.Wrapf(err, "[Manager SetSession] write token entry")
		}
	}
	m.broadcast()
	return nil
}

// SetUser overwrites the stored user profile only, leaving the token
// untouched. Used by profile updates.
func (m *Manager) SetUser(user *model.User) error {
	if err := m.setUser(user); err != nil {
		return err
	}
	m.broadcast()
	return nil
}

// Clear removes both session entries unconditionally and never fails.
// Logout and server-side token rejection both land here, so subscribers
// observe every transition to the logged-out state.
func (m *Manager) Clear() {
	if err := m.repo.Remove(KeyUser); err != nil {
		log.Warn().Err(err).Msg("Failed to remove user entry from session store")
	}
	if err := m.repo.Remove(KeyToken); err != nil {
		log.Warn().Err(err).Msg("Failed to remove token entry from session store")
	}
	m.broadcast()
}

func (m *Manager) setUser(user *model.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return errors.Wrapf(err, "[Manager setUser] encode user")
	}
	if err := m.repo.Set(KeyUser, string(encoded)); err != nil {
		return errors.Wrapf(err, "[Manager setUser] write user entry")
	}
	return nil
}
