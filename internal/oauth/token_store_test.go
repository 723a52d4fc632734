package oauth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential() *Credential {
	return &Credential{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Millisecond),
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)
	cred := testCredential()

	require.NoError(t, store.Save(cred))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.True(t, cred.Equal(loaded))

	// A fresh store pointed at the same path sees the same record.
	loaded, ok = NewTokenStore(path).Load()
	require.True(t, ok)
	assert.True(t, cred.Equal(loaded))
}

func TestTokenStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on Windows")
	}

	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)
	require.NoError(t, store.Save(testCredential()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(filepath.Join(dir, "token.json"))

	require.NoError(t, store.Save(testCredential()))
	second := testCredential()
	second.AccessToken = "second"
	require.NoError(t, store.Save(second))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "second", loaded.AccessToken)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestTokenStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
	store := NewTokenStore(path)

	require.NoError(t, store.Save(testCredential()))
	assert.True(t, store.Exists())
}

func TestTokenStore_SaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// The parent "directory" is a regular file.
	store := NewTokenStore(filepath.Join(blocker, "token.json"))
	assert.Error(t, store.Save(testCredential()))
	assert.Error(t, store.Save(nil))
}

func TestTokenStore_LoadFailuresDegrade(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: "{not json"},
		{name: "empty object", content: "{}"},
		{name: "wrong types", content: `{"accessToken": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			cred, ok := NewTokenStore(path).Load()
			assert.False(t, ok)
			assert.Nil(t, cred)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		cred, ok := NewTokenStore(filepath.Join(t.TempDir(), "absent.json")).Load()
		assert.False(t, ok)
		assert.Nil(t, cred)
	})
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(testCredential()))
	require.True(t, store.Exists())

	store.Clear()
	store.Clear()

	assert.False(t, store.Exists())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestTokenStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, DefaultTokenFile), NewTokenStore("").Path())
}
