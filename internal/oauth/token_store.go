package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"swit-mcp/pkg/logging"
)

// DefaultTokenFile is the token file name placed in the user's home directory.
const DefaultTokenFile = ".swit-mcp-token.json"

// TokenStore persists a single Credential to a JSON file.
//
// SECURITY: the file holds live OAuth credentials. It is written with 0600
// permissions and token values are never logged.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// DefaultTokenPath returns ~/.swit-mcp-token.json, or the bare file name when
// the home directory cannot be determined.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultTokenFile
	}
	return filepath.Join(home, DefaultTokenFile)
}

// NewTokenStore creates a store for path. An empty path selects DefaultTokenPath.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Save replaces the token file with cred. The content is written to a
// temporary file in the same directory and renamed over the target, so a
// concurrent Load sees either the old or the new record.
func (s *TokenStore) Save(cred *Credential) error {
	if cred == nil {
		return errors.New("cannot save nil credential")
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary token file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	logging.Debug("TokenStore", "Saved OAuth token to %s", s.path)
	return nil
}

// Load returns the saved credential. It reports false when the file is
// absent, unreadable, malformed, or holds no access token.
func (s *TokenStore) Load() (*Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// #nosec G304 -- path is fixed at construction
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("TokenStore", "Failed to read token file %s: %v", s.path, err)
		}
		return nil, false
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		logging.Warn("TokenStore", "Ignoring malformed token file %s: %v", s.path, err)
		return nil, false
	}
	if cred.AccessToken == "" {
		return nil, false
	}
	return &cred, true
}

// Clear deletes the token file. A missing file is not an error; other
// failures are logged and otherwise ignored.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("TokenStore", "Failed to remove token file %s: %v", s.path, err)
		return
	}
	logging.Debug("TokenStore", "Cleared OAuth token file %s", s.path)
}

// Exists reports whether the token file is present.
func (s *TokenStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
