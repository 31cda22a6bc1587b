package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/infra/storage"
	"github.com/boddenberg/sarathi-client-go/internal/session"
	"github.com/boddenberg/sarathi-client-go/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newAuth(t *testing.T, api *mockAuthAPI) (*store.AuthStore, *session.Session) {
	t.Helper()
	kv := storage.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })
	sess := session.New(kv)
	return store.NewAuthStore(api, sess, observability.NewMetrics(), zap.NewNop()), sess
}

func jwtWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).
		SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAuthStore_LoginPersistsTokenAndUser(t *testing.T) {
	api := &mockAuthAPI{
		token: &domain.Token{AccessToken: "tok", TokenType: "bearer"},
		user:  &domain.User{ID: 1, Name: "Ravi"},
	}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	if err := s.Login(ctx, "9999999999", "secret"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	snap := s.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.Name != "Ravi" {
		t.Errorf("unexpected state %+v", snap)
	}
	if snap.Loading || snap.Error != "" {
		t.Errorf("expected idle state, got %+v", snap.Meta)
	}
	if tok, _ := sess.Token(ctx); tok != "tok" {
		t.Errorf("expected token persisted, got %q", tok)
	}
	if u, _ := sess.User(ctx); u == nil || u.ID != 1 {
		t.Errorf("expected user persisted, got %+v", u)
	}
}

func TestAuthStore_LoginFailureUsesBackendDetail(t *testing.T) {
	api := &mockAuthAPI{loginErr: &domain.APIError{Status: 401, Detail: "Incorrect phone number or password"}}
	s, _ := newAuth(t, api)

	err := s.Login(context.Background(), "1", "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	snap := s.Snapshot()
	if snap.Authenticated {
		t.Error("expected unauthenticated")
	}
	if snap.Error != "Incorrect phone number or password" {
		t.Errorf("unexpected error message %q", snap.Error)
	}
}

func TestAuthStore_LoginFailureAfterTokenClearsSession(t *testing.T) {
	api := &mockAuthAPI{
		token: &domain.Token{AccessToken: "tok"},
		meErr: errors.New("connection reset"),
	}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	if err := s.Login(ctx, "1", "p"); err == nil {
		t.Fatal("expected error")
	}
	if tok, _ := sess.Token(ctx); tok != "" {
		t.Errorf("expected token removed, got %q", tok)
	}
	if got := s.Snapshot().Error; got != "Login failed" {
		t.Errorf("expected fallback message, got %q", got)
	}
}

func TestAuthStore_LoadUserRestoresSession(t *testing.T) {
	api := &mockAuthAPI{user: &domain.User{ID: 1, Name: "Fresh"}}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	_ = sess.SaveToken(ctx, jwtWithExp(t, time.Now().Add(time.Hour)))
	_ = sess.SaveUser(ctx, &domain.User{ID: 1, Name: "Cached"})

	s.LoadUser(ctx)

	snap := s.Snapshot()
	if !snap.Authenticated || snap.User.Name != "Fresh" {
		t.Errorf("expected restored session with fresh profile, got %+v", snap)
	}
	if u, _ := sess.User(ctx); u.Name != "Fresh" {
		t.Errorf("expected refreshed user persisted, got %q", u.Name)
	}
}

func TestAuthStore_LoadUserNeedsTokenAndUser(t *testing.T) {
	api := &mockAuthAPI{user: &domain.User{ID: 1}}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	_ = sess.SaveToken(ctx, "opaque")
	s.LoadUser(ctx)

	if s.Snapshot().Authenticated {
		t.Error("expected unauthenticated without a cached user")
	}
	if api.meCalls != 0 {
		t.Errorf("expected no profile call, got %d", api.meCalls)
	}
}

func TestAuthStore_LoadUserDiscardsExpiredToken(t *testing.T) {
	api := &mockAuthAPI{user: &domain.User{ID: 1}}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	_ = sess.SaveToken(ctx, jwtWithExp(t, time.Now().Add(-time.Hour)))
	_ = sess.SaveUser(ctx, &domain.User{ID: 1})

	s.LoadUser(ctx)

	if s.Snapshot().Authenticated {
		t.Error("expected expired session to be dropped")
	}
	if api.meCalls != 0 {
		t.Errorf("expected no network call for an expired token, got %d", api.meCalls)
	}
	if tok, _ := sess.Token(ctx); tok != "" {
		t.Error("expected expired token removed")
	}
}

func TestAuthStore_LoadUserFailureIsUnauthenticated(t *testing.T) {
	api := &mockAuthAPI{meErr: &domain.APIError{Status: 500}}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	_ = sess.SaveToken(ctx, "opaque")
	_ = sess.SaveUser(ctx, &domain.User{ID: 1})

	s.LoadUser(ctx)

	snap := s.Snapshot()
	if snap.Authenticated || snap.Loading {
		t.Errorf("unexpected state %+v", snap)
	}
}

func TestAuthStore_LogoutAndUnauthorizedHook(t *testing.T) {
	api := &mockAuthAPI{token: &domain.Token{AccessToken: "tok"}, user: &domain.User{ID: 1}}
	s, sess := newAuth(t, api)
	ctx := context.Background()

	_ = s.Login(ctx, "1", "p")
	s.HandleUnauthorized(ctx)
	if snap := s.Snapshot(); snap.Authenticated || snap.User != nil {
		t.Errorf("expected hook to drop session, got %+v", snap)
	}

	_ = s.Login(ctx, "1", "p")
	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Authenticated {
		t.Error("expected logout to drop session")
	}
	if tok, _ := sess.Token(ctx); tok != "" {
		t.Error("expected token removed on logout")
	}
}

func TestAuthStore_RegisterDoesNotLogIn(t *testing.T) {
	api := &mockAuthAPI{}
	s, _ := newAuth(t, api)

	if err := s.Register(context.Background(), &domain.RegisterRequest{PhoneNumber: "1", Name: "A", Password: "p"}); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Authenticated {
		t.Error("expected register to leave the store unauthenticated")
	}

	api.regErr = &domain.APIError{Status: 400, Detail: "Phone number already registered"}
	if err := s.Register(context.Background(), &domain.RegisterRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if got := s.Snapshot().Error; got != "Phone number already registered" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestAuthStore_UpdateProfile(t *testing.T) {
	api := &mockAuthAPI{token: &domain.Token{AccessToken: "tok"}, user: &domain.User{ID: 1, Name: "Old"}}
	s, sess := newAuth(t, api)
	ctx := context.Background()
	_ = s.Login(ctx, "1", "p")

	name := "New"
	if err := s.UpdateProfile(ctx, &domain.ProfileUpdate{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().User.Name != "New" {
		t.Errorf("expected updated name, got %q", s.Snapshot().User.Name)
	}
	if u, _ := sess.User(ctx); u.Name != "New" {
		t.Errorf("expected persisted update, got %q", u.Name)
	}

	api.updateErr = errors.New("boom")
	if err := s.UpdateProfile(ctx, &domain.ProfileUpdate{Name: &name}); err == nil {
		t.Fatal("expected error")
	}
	if got := s.Snapshot().Error; got != "Update failed" {
		t.Errorf("unexpected error %q", got)
	}
}
