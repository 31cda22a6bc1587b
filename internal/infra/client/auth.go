package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// AuthClient calls the /auth endpoints.
type AuthClient struct {
	t *Transport
}

// NewAuthClient creates a new AuthClient.
func NewAuthClient(t *Transport) *AuthClient {
	return &AuthClient{t: t}
}

// Login exchanges phone number and password for a bearer token.
func (c *AuthClient) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Token, error) {
	var tok domain.Token
	err := c.t.Do(ctx, Request{
		Operation: "AuthClient.Login",
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
	}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates a driver account. It does not log in.
func (c *AuthClient) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	var u domain.User
	err := c.t.Do(ctx, Request{
		Operation: "AuthClient.Register",
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the authenticated user.
func (c *AuthClient) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	err := c.t.Do(ctx, Request{
		Operation: "AuthClient.Me",
		Method:    http.MethodGet,
		Path:      "/auth/me",
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe patches the authenticated user's profile.
func (c *AuthClient) UpdateMe(ctx context.Context, upd *domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	err := c.t.Do(ctx, Request{
		Operation: "AuthClient.UpdateMe",
		Method:    http.MethodPatch,
		Path:      "/auth/me",
		Body:      upd,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
