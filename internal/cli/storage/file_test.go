package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_GetMissingKey(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	_, err := s.Get(ThemeKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorage_SetGetRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStorage(dir)

	require.NoError(t, s.Set(ThemeKey, "ocean"))
	require.NoError(t, s.Set(SessionKey, `{"state":{}}`))

	value, err := s.Get(ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "ocean", value)

	// A fresh instance on the same directory sees the same values.
	reopened := NewFileStorage(dir)
	value, err = reopened.Get(SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"state":{}}`, value)

	require.NoError(t, reopened.Remove(ThemeKey))
	_, err = reopened.Get(ThemeKey)
	require.ErrorIs(t, err, ErrNotFound)

	// Removing an absent key is not an error.
	require.NoError(t, reopened.Remove(ThemeKey))
}

func TestFileStorage_FilePermissions(t *testing.T) {
	s := NewFileStorage(t.TempDir())
	require.NoError(t, s.Set(SessionKey, "secret"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))

	_, err := s.Get(ThemeKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_InjectedFailures(t *testing.T) {
	m := NewMemoryStorage()
	require.NoError(t, m.Set("k", "v"))
	assert.Equal(t, 1, m.Writes())

	m.SetErr = assert.AnError
	require.ErrorIs(t, m.Set("k", "w"), assert.AnError)
	assert.Equal(t, 1, m.Writes())

	value, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
