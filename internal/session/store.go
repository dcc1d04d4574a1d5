// Package session persists the authenticated user and the access/refresh token
// pair. All components read and write session state through Store; nothing else
// touches the underlying KV directly.
package session

import (
	"encoding/json"

	"bookline/internal/identity/models"
)

// Storage keys, one per entry. The user entry holds a snapshot copied at
// sign-in time; later directory mutations do not propagate into an open session.
const (
	keyUser         = "mock_user"
	keyAccessToken  = "mock_access_token"
	keyRefreshToken = "mock_refresh_token"
)

// Store is the single session persistence surface. Exactly one session is
// active per client context; Save overwrites any previous one.
type Store struct {
	kv KV
}

// NewStore constructs a session store over the given KV surface.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Save persists the user snapshot and both tokens. The three writes are
// sequenced but not transactional: a failure mid-sequence can leave the store
// inconsistent. No recovery is attempted; readers fail open to anonymous.
func (s *Store) Save(user *models.User, accessToken, refreshToken string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.kv.Set(keyUser, string(raw)); err != nil {
		return err
	}
	if err := s.kv.Set(keyAccessToken, accessToken); err != nil {
		return err
	}
	return s.kv.Set(keyRefreshToken, refreshToken)
}

// CurrentUser returns the stored user snapshot, or nil when absent.
// Corrupt stored data is treated as "no session", never surfaced as an error.
func (s *Store) CurrentUser() *models.User {
	raw, ok := s.kv.Get(keyUser)
	if !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// AccessToken returns the raw stored access token, or false when absent.
func (s *Store) AccessToken() (string, bool) {
	return s.kv.Get(keyAccessToken)
}

// RefreshToken returns the raw stored refresh token, or false when absent.
func (s *Store) RefreshToken() (string, bool) {
	return s.kv.Get(keyRefreshToken)
}

// IsAuthenticated reports whether both an access token and a user are present.
func (s *Store) IsAuthenticated() bool {
	token, ok := s.AccessToken()
	return ok && token != "" && s.CurrentUser() != nil
}

// Clear removes all three entries. Clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	if err := s.kv.Delete(keyUser); err != nil {
		return err
	}
	if err := s.kv.Delete(keyAccessToken); err != nil {
		return err
	}
	return s.kv.Delete(keyRefreshToken)
}
