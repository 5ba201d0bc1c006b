// Package session persists the logged-in user's token and name.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	// ErrNoSession is returned by Load when nobody is logged in.
	ErrNoSession = errors.New("not logged in")

	// ErrExpired is returned by Load when the stored token is past its expiry.
	ErrExpired = errors.New("session expired")
)

// Session is the stored login state.
type Session struct {
	Username string        `json:"username"`
	Token    *oauth2.Token `json:"token"`
}

// Load reads the session file at path.
// A missing file or a file without an access token yields ErrNoSession.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	if s.Token == nil || s.Token.AccessToken == "" || s.Username == "" {
		return nil, ErrNoSession
	}
	if !s.Token.Expiry.IsZero() && !s.Token.Expiry.After(time.Now()) {
		return nil, ErrExpired
	}
	return &s, nil
}

// TokenExpiry reads the exp claim of a JWT access token without verifying
// its signature. It returns the zero time for opaque tokens or tokens
// without exp.
func TokenExpiry(accessToken string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Save writes the session with mode 0600, creating the parent directory.
func Save(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Clear removes the session file. Returns false if there was none.
func Clear(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
