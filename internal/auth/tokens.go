package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ValidityBuffer is subtracted from a token's expiry when computing validity,
// guarding against clock skew with the resource server.
const ValidityBuffer = 5 * time.Minute

// tokenRecord is the persisted key-value document.
type tokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// TokenStore persists the access/refresh token pair and computes validity.
//
// The record is owned exclusively by the store; it changes only through Save
// and Clear. A single store backs one user session (no multi-user storage).
type TokenStore struct {
	path string
	now  func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewTokenStore creates a store backed by the JSON document at path and loads
// any existing record. A missing file is not an error; the store starts empty.
func NewTokenStore(path string) (*TokenStore, error) {
	s := &TokenStore{path: path, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TokenStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to parse token file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = record.AccessToken
	s.refreshToken = record.RefreshToken
	if record.ExpiresAt > 0 {
		s.expiresAt = time.Unix(record.ExpiresAt, 0)
	}

	return nil
}

// Save persists a new token pair, computing the absolute expiry from
// expiresIn. The write is atomic: on failure the prior record is retained,
// in memory and on disk.
func (s *TokenStore) Save(accessToken, refreshToken string, expiresIn time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(expiresIn)

	record := tokenRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Unix(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := ensureDir(s.path); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.expiresAt = expiresAt

	return nil
}

// Valid reports whether an access token is present and not within the safety
// buffer of its expiry.
func (s *TokenStore) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != "" && s.now().Before(s.expiresAt.Add(-ValidityBuffer))
}

// HasRefreshToken reports whether a refresh token is available.
func (s *TokenStore) HasRefreshToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken != ""
}

// AccessToken returns the stored access token without checking validity.
func (s *TokenStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the stored refresh token.
func (s *TokenStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// ExpiresAt returns the absolute expiry of the current access token.
func (s *TokenStore) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Clear removes all fields and deletes the persisted record.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	return nil
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// ensureDir creates the directory for the token file if needed.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
