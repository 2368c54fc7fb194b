package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Auth returns an auth client for the project's GoTrue endpoints.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

// AuthClient handles sign-up, sign-in and session lookup.
type AuthClient struct {
	client *Client
}

// AuthResponse is the response from auth operations.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// User is the auth-subsystem identity; its ID is the account identifier used
// throughout the service.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// SignUp registers a new user with email and password.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	return a.tokenRequest(ctx, fmt.Sprintf("%s/auth/v1/signup", a.client.baseURL), email, password)
}

// SignIn exchanges email and password for an access token.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return a.tokenRequest(ctx, fmt.Sprintf("%s/auth/v1/token?grant_type=password", a.client.baseURL), email, password)
}

func (a *AuthClient) tokenRequest(ctx context.Context, reqURL, email, password string) (*AuthResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	a.client.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := resp.JSON(&authResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &authResp, nil
}

// GetUser resolves an access token to the current user.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	reqURL := fmt.Sprintf("%s/auth/v1/user", a.client.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	a.client.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var user User
	if err := resp.JSON(&user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &user, nil
}
