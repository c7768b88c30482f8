package sunsights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login posts credentials and, on success, persists the returned token and
// returns the session. A 2xx response missing either token or user fails
// with ErrInvalidResponse.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/login", loginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
}

// Register creates an account, then behaves exactly like Login.
func (c *Client) Register(ctx context.Context, email, password, name string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/register", loginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     strings.TrimSpace(name),
	})
}

func (c *Client) authenticate(ctx context.Context, path string, req loginRequest) (Session, error) {
	if req.Email == "" || req.Password == "" {
		return Session{}, errors.New("email and password are required")
	}
	if path == "/api/auth/register" && req.Name == "" {
		return Session{}, errors.New("name is required")
	}

	var resp sessionResponse
	if err := c.postJSON(ctx, path, req, &resp); err != nil {
		return Session{}, err
	}
	if resp.Token == "" || resp.User == nil {
		return Session{}, ErrInvalidResponse
	}
	if err := c.tokens.Save(resp.Token); err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token, User: *resp.User}, nil
}

// CurrentUser resolves the persisted token to its user, the bootstrap call
// for a restored session. A missing token fails fast with
// ErrNotAuthenticated; a locally expired one is cleared and reported as
// ErrSessionExpired without a network round trip. Any server-side rejection
// also clears the token so the caller forces re-authentication.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return User{}, err
	}
	if token == "" {
		return User{}, ErrNotAuthenticated
	}
	if TokenExpired(token, time.Now()) {
		_ = c.tokens.Clear()
		return User{}, ErrSessionExpired
	}

	var resp struct {
		User *User `json:"user"`
	}
	if err := c.getJSON(ctx, "/api/auth/user", nil, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			_ = c.tokens.Clear()
		}
		return User{}, err
	}
	if resp.User == nil {
		return User{}, ErrInvalidResponse
	}
	return *resp.User, nil
}

// ForgotPassword requests a recovery email. The backend answers uniformly
// whether or not the address exists, and so does this method: any 2xx is
// success, and callers should show the same "check your email" message
// either way.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "/api/auth/forgot-password", body, nil)
}

// ResetPassword completes recovery with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" || newPassword == "" {
		return errors.New("reset token and new password are required")
	}
	body := map[string]string{"token": token, "password": newPassword}
	return c.postJSON(ctx, "/api/auth/reset-password", body, nil)
}

// Logout discards the persisted token. Purely client-side; the token simply
// stops being attached.
func (c *Client) Logout() error {
	if err := c.tokens.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
