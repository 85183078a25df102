package api

import (
	"context"
	"net/http"

	"taskman/internal/model"
)

// AuthAPI groups the auth endpoints. Pure request builders: errors bubble to
// the caller uninterpreted.
type AuthAPI struct {
	c *Client
}

type authEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    model.AuthPayload `json:"data"`
}

type userEnvelope struct {
	Success bool       `json:"success"`
	Data    model.User `json:"data"`
}

// Login exchanges credentials for a token and user snapshot.
func (a *AuthAPI) Login(ctx context.Context, creds model.Credentials) (model.AuthPayload, error) {
	var env authEnvelope
	err := a.c.do(ctx, http.MethodPost, a.c.convention.authPath("login"), nil, creds, &env)
	if err != nil {
		return model.AuthPayload{}, err
	}
	return env.Data, nil
}

// Register creates an account and returns the token and user snapshot.
func (a *AuthAPI) Register(ctx context.Context, in model.RegisterInput) (model.AuthPayload, error) {
	var env authEnvelope
	err := a.c.do(ctx, http.MethodPost, a.c.convention.authPath("register"), nil, in, &env)
	if err != nil {
		return model.AuthPayload{}, err
	}
	return env.Data, nil
}

// Logout invalidates the server-side session.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, a.c.convention.authPath("logout"), nil, nil, nil)
}

// Me returns the current authenticated user.
func (a *AuthAPI) Me(ctx context.Context) (model.User, error) {
	var env userEnvelope
	err := a.c.do(ctx, http.MethodGet, a.c.convention.authPath("me"), nil, nil, &env)
	if err != nil {
		return model.User{}, err
	}
	return env.Data, nil
}
