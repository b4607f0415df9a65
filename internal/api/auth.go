package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token. The client itself is not
// changed; callers build a new Client with the token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := loginRequest{Email: email, Password: password}
	if err := c.validate.Struct(body); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	var out loginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("login: response carried no token")
	}
	return out.Token, nil
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Signup creates an account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, error) {
	body := signupRequest{Name: name, Email: email, Password: password}
	if err := c.validate.Struct(body); err != nil {
		return "", fmt.Errorf("signup: %w", err)
	}

	var out loginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return "", fmt.Errorf("signup: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("signup: response carried no token")
	}
	return out.Token, nil
}

// Logout revokes the configured token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// Dashboard returns the backend's greeting for the signed-in learner.
func (c *Client) Dashboard(ctx context.Context) (string, error) {
	var out messageResponse
	if _, err := c.do(ctx, http.MethodGet, "/dashboard", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// User is the authenticated account.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the response of the token-check route.
type Profile struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Profile returns the account behind the configured token. A missing or
// rejected token yields an error matching ErrUnauthorized.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if _, err := c.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
