// Package storage keeps the terminal client's state on disk and reads
// its interactive input.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultSessionFile is where the client keeps its credential.
const DefaultSessionFile = ".zenly-session.json"

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Session is the persisted login of the terminal client.
type Session struct {
	BaseURL   string    `json:"base_url"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the credential is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionFile reads and writes a Session as JSON. The file holds a bearer
// credential, so it is written with owner-only permissions.
type SessionFile struct {
	Path string
	mu   sync.Mutex
}

// Load returns the stored session. A missing file, an empty token or an
// expired credential yields ErrNoSession.
func (f *SessionFile) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", f.Path, err)
	}
	if s.Token == "" || s.Expired(time.Now()) {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save replaces the stored session.
func (f *SessionFile) Save(s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// Write to a temp file first so a crash never leaves half a credential.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// Clear removes the stored session. Clearing a missing file is not an error.
func (f *SessionFile) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
