package filerepo_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crawler-client/session"
	"github.com/jrsteele09/go-crawler-client/session/filerepo"
)

func TestFileSessionRepoRoundTrip(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	_, ok, err := repo.Get(session.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set(session.KeyToken, "tok1"))

	value, ok, err := repo.Get(session.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok1", value)

	require.NoError(t, repo.Remove(session.KeyToken))
	_, ok, err = repo.Get(session.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileSessionRepoRemoveAbsentKey(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Remove("never-written"))
}

func TestFileSessionRepoPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := filerepo.New(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(session.KeyUser, `{"id":1}`))

	second, err := filerepo.New(dir)
	require.NoError(t, err)
	value, ok, err := second.Get(session.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":1}`, value)
}

func TestFileSessionRepoCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")

	repo, err := filerepo.New(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Set(session.KeyToken, "tok1"))
}
