// Package filerepo persists session entries as plain files, one file per
// key, under a directory owned by the current user. It is the desktop
// analogue of the browser's origin-scoped local storage: entries survive
// restarts, carry no expiry, and concurrent writers are last-write-wins.
package filerepo

import (
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
	"github.com/jrsteele09/go-crawler-client/session"
)

var _ session.Repo = (*FileSessionRepo)(nil)

type FileSessionRepo struct {
	dir string
}

// New creates the storage directory when missing and returns a file-backed
// session repo rooted there.
func New(dir string) (*FileSessionRepo, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "[filerepo New] create %s", dir)
	}
	return &FileSessionRepo{dir: dir}, nil
}

func (r *FileSessionRepo) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(r.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "[FileSessionRepo Get] read %q", key)
	}
	return string(data), true, nil
}

func (r *FileSessionRepo) Set(key, value string) error {
	if err := os.WriteFile(r.path(key), []byte(value), 0o600); err != nil {
		return errors.Wrapf(err, "[FileSessionRepo Set] write %q", key)
	}
	return nil
}

func (r *FileSessionRepo) Remove(key string) error {
	err := os.Remove(r.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "[FileSessionRepo Remove] remove %q", key)
	}
	return nil
}

func (r *FileSessionRepo) path(key string) string {
	return filepath.Join(r.dir, key)
}
