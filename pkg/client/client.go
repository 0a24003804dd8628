// Package client provides a Go client for the GlobeMate API plus the
// session and conversation state containers a frontend needs on top of it.
//
// The Client is transport-only: JSON over HTTP with bearer authentication.
// State handling (modal exclusivity, optimistic conversation turns) lives in
// state.go so it can be tested against a stubbed transport.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// User mirrors the account resource returned by the API.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// APIError is a decoded error envelope from the server.
type APIError struct {
	Status    int    `json:"-"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to the GlobeMate API. The zero value is not usable; construct
// with New. Safe for concurrent use once the token is set.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

// New constructs a Client for the API rooted at baseURL (e.g.
// "https://api.example.com/api").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty when signed out.
func (c *Client) Token() string { return c.token }

type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Register creates an account and stores the returned session token.
func (c *Client) Register(ctx context.Context, username, email, password, displayName string) (*User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username":    username,
		"email":       email,
		"password":    password,
		"displayName": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Login verifies credentials and stores the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Logout clears the server cookie and drops the local token. The local token
// is dropped even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Me returns the account of the current session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ask sends a question to the assistant and returns the reply. userID may be
// empty; signed-in sessions are attributed server-side from the token.
func (c *Client) Ask(ctx context.Context, userID, message string) (string, error) {
	body := map[string]string{"message": message}
	if userID != "" {
		body["userId"] = userID
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/ask", body, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// do performs one JSON round trip, decoding error envelopes into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if derr := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr); derr != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
