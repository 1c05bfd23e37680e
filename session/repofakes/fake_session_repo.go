package fakesessionrepo

import (
	"sync"

	"github.com/jrsteele09/go-crawler-client/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	entries map[string]string
	lock    sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		entries: make(map[string]string),
	}
}

func (sr *FakeSessionRepo) Get(key string) (string, bool, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	value, ok := sr.entries[key]
	return value, ok, nil
}

func (sr *FakeSessionRepo) Set(key, value string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.entries[key] = value
	return nil
}

func (sr *FakeSessionRepo) Remove(key string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.entries, key)
	return nil
}

// Len reports the number of stored entries, for test assertions.
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return len(sr.entries)
}
