// Package auth holds the persisted session token for the remote service.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const envToken = "TAMARIND_TOKEN"

// Session is the bearer token used against the service, loaded from the
// TAMARIND_TOKEN environment variable or from the session file written
// by a previous login. It satisfies api.TokenSource.
type Session struct {
	mu    sync.RWMutex
	token string
	path  string
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// SessionPath returns the default session file location.
func SessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tamarind", "session.json"), nil
}

// Load builds a session from the environment, falling back to the
// session file at path. A missing file is not an error; the session is
// simply anonymous until SetToken is called.
func Load(path string) (*Session, error) {
	s := &Session{path: path}

	if token := os.Getenv(envToken); token != "" {
		s.token = token
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var stored sessionFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	s.token = stored.Token
	return s, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken replaces the token and persists it to the session file.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(sessionFile{Token: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear forgets the token and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ExpiresAt peeks at the token's exp claim without verifying the
// signature. Verification is the server's job; the client only wants to
// warn before a session dies mid-use. Returns the zero time when the
// token is absent, opaque, or carries no expiry.
func (s *Session) ExpiresAt() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// ExpiringSoon reports whether the token expires within the given
// window. Tokens without a readable expiry never report as expiring.
func (s *Session) ExpiringSoon(within time.Duration) bool {
	exp := s.ExpiresAt()
	if exp.IsZero() {
		return false
	}
	return time.Until(exp) < within
}
