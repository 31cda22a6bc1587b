// Package session owns the persisted credentials: the bearer token and the
// cached user record.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
)

// Storage keys. They match the keys used by the mobile app so an exported
// store can be read by either client.
const (
	TokenKey = "authToken"
	UserKey  = "user"
)

// Session reads and writes credentials in a KV store.
// It implements port.CredentialStore.
type Session struct {
	kv port.KVStore
}

// New creates a Session over kv.
func New(kv port.KVStore) *Session {
	return &Session{kv: kv}
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SaveToken stores the bearer token.
func (s *Session) SaveToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, TokenKey, []byte(token))
}

// User returns the cached user record, or nil when none is stored.
func (s *Session) User(ctx context.Context) (*domain.User, error) {
	v, err := s.kv.Get(ctx, UserKey)
	if err != nil || v == nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

// SaveUser caches the user record.
func (s *Session) SaveUser(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(ctx, UserKey, data)
}

// Clear removes both the token and the user record. Both deletes are
// attempted; the first error is returned.
func (s *Session) Clear(ctx context.Context) error {
	errToken := s.kv.Delete(ctx, TokenKey)
	errUser := s.kv.Delete(ctx, UserKey)
	if errToken != nil {
		return errToken
	}
	return errUser
}

// TokenExpired reports whether token carries an exp claim in the past.
// The signature is not verified: the backend stays the authority, this only
// avoids a round trip with a token that cannot work. Tokens that cannot be
// parsed or have no exp are treated as not expired.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
