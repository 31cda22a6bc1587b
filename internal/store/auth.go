package store

import (
	"context"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/port"
	"github.com/boddenberg/sarathi-client-go/internal/session"

	"go.uber.org/zap"
)

// AuthState is the authentication slice of client state.
type AuthState struct {
	Meta
	User          *domain.User `json:"user,omitempty"`
	Authenticated bool         `json:"authenticated"`
}

// AuthStore owns login state and the persisted session.
type AuthStore struct {
	c       *container[AuthState]
	api     port.AuthAPI
	session *session.Session
	now     func() time.Time
}

// NewAuthStore creates an unauthenticated AuthStore. Call LoadUser to
// restore a persisted session.
func NewAuthStore(api port.AuthAPI, sess *session.Session, metrics *observability.Metrics, logger *zap.Logger) *AuthStore {
	return &AuthStore{
		c:       newContainer("auth", AuthState{}, metrics, logger),
		api:     api,
		session: sess,
		now:     time.Now,
	}
}

// Snapshot returns the current auth state.
func (s *AuthStore) Snapshot() AuthState {
	st, meta := s.c.snapshot()
	st.Meta = meta
	return st
}

// Subscribe registers fn for state changes.
func (s *AuthStore) Subscribe(fn func()) func() {
	return s.c.Subscribe(fn)
}

// Login exchanges credentials for a token, persists it, then fetches and
// persists the profile. Credentials saved by a failed attempt are removed.
func (s *AuthStore) Login(ctx context.Context, phone, password string) error {
	s.c.begin()

	user, err := s.login(ctx, phone, password)
	if err != nil {
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			s.c.logger.Error("auth: failed to clear session after login error", zap.Error(clearErr))
		}
		s.c.fail("login", "Login failed", err)
		return err
	}

	s.c.succeed("login", func(st *AuthState) {
		st.User = user
		st.Authenticated = true
	})
	s.c.logger.Info("auth: logged in", zap.Int64("user_id", user.ID))
	return nil
}

func (s *AuthStore) login(ctx context.Context, phone, password string) (*domain.User, error) {
	tok, err := s.api.Login(ctx, &domain.LoginRequest{PhoneNumber: phone, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.session.SaveToken(ctx, tok.AccessToken); err != nil {
		return nil, err
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates an account. It does not log in.
func (s *AuthStore) Register(ctx context.Context, req *domain.RegisterRequest) error {
	s.c.begin()
	if _, err := s.api.Register(ctx, req); err != nil {
		s.c.fail("register", "Registration failed", err)
		return err
	}
	s.c.succeed("register", nil)
	return nil
}

// Logout removes the persisted credentials and marks the store
// unauthenticated even when the removal fails.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.session.Clear(ctx)
	if err != nil {
		s.c.logger.Error("auth: failed to clear session", zap.Error(err))
	}
	s.c.set(func(st *AuthState) {
		st.User = nil
		st.Authenticated = false
	})
	return err
}

// LoadUser restores a persisted session. Both a token and a cached user
// must be present; a token that has expired locally is discarded without a
// network call. The profile is then refreshed from the backend. Any failure
// leaves the store unauthenticated.
func (s *AuthStore) LoadUser(ctx context.Context) {
	s.c.begin()

	user, err := s.restore(ctx)
	if err != nil || user == nil {
		if err != nil {
			s.c.logger.Info("auth: session not restored", zap.Error(err))
		}
		s.c.succeed("load_user", func(st *AuthState) {
			st.User = nil
			st.Authenticated = false
		})
		return
	}

	s.c.succeed("load_user", func(st *AuthState) {
		st.User = user
		st.Authenticated = true
	})
}

func (s *AuthStore) restore(ctx context.Context) (*domain.User, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	cached, err := s.session.User(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" || cached == nil {
		return nil, nil
	}
	if session.TokenExpired(token, s.now()) {
		s.c.logger.Info("auth: stored token expired")
		return nil, s.session.Clear(ctx)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile sends a partial profile update and persists the result.
func (s *AuthStore) UpdateProfile(ctx context.Context, upd *domain.ProfileUpdate) error {
	s.c.begin()

	user, err := s.api.UpdateMe(ctx, upd)
	if err == nil {
		err = s.session.SaveUser(ctx, user)
	}
	if err != nil {
		s.c.fail("update_profile", "Update failed", err)
		return err
	}

	s.c.succeed("update_profile", func(st *AuthState) {
		st.User = user
	})
	return nil
}

// HandleUnauthorized drops the authenticated flag and the user. It is
// registered as a transport hook and runs after credentials were cleared.
func (s *AuthStore) HandleUnauthorized(context.Context) {
	s.c.set(func(st *AuthState) {
		st.User = nil
		st.Authenticated = false
	})
	s.c.logger.Warn("auth: session rejected by backend")
}
