package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrInvalidGrant is returned when GoTrue rejects the email/password pair
	ErrInvalidGrant = errors.New("invalid login credentials")
	// ErrUserExists is returned when signing up an email that is already registered
	ErrUserExists = errors.New("user already registered")
)

// UserMetadata is the custom profile data stored on a Supabase user
type UserMetadata struct {
	FullName       string `json:"full_name,omitempty"`
	Role           string `json:"role,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Avatar         string `json:"avatar_url,omitempty"`
}

// AuthUser is the subset of the GoTrue user object the site needs
type AuthUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Session is the password grant response
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         *AuthUser `json:"user"`
}

// AuthClient is a client for the Supabase auth (GoTrue) REST API
type AuthClient interface {
	// SignInWithPassword exchanges credentials for a session
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp creates a user with the given metadata
	SignUp(ctx context.Context, email, password string, metadata UserMetadata) (*AuthUser, error)
	// Recover sends a password reset email
	Recover(ctx context.Context, email, redirectTo string) error
}

// HTTPAuthClient implements AuthClient over HTTP
type HTTPAuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewHTTPAuthClient creates a GoTrue client for a Supabase project URL
func NewHTTPAuthClient(projectURL, anonKey string) *HTTPAuthClient {
	return &HTTPAuthClient{
		baseURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx GoTrue response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gotrue returned status %d: %s", e.StatusCode, e.Message)
}

func (c *HTTPAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, "/token?grant_type=password", body, &session); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}
	if session.User == nil {
		return nil, fmt.Errorf("gotrue session without user")
	}
	return &session, nil
}

func (c *HTTPAuthClient) SignUp(ctx context.Context, email, password string, metadata UserMetadata) (*AuthUser, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	// With email confirmation enabled GoTrue answers with the bare user,
	// otherwise with a session wrapping it.
	var raw struct {
		AuthUser
		User *AuthUser `json:"user"`
	}
	if err := c.do(ctx, "/signup", body, &raw); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnprocessableEntity || apiErr.Code == "user_already_exists") {
			return nil, ErrUserExists
		}
		return nil, err
	}
	if raw.User != nil {
		return raw.User, nil
	}
	return &raw.AuthUser, nil
}

func (c *HTTPAuthClient) Recover(ctx context.Context, email, redirectTo string) error {
	body := map[string]string{"email": email}
	if redirectTo != "" {
		body["redirect_to"] = redirectTo
	}
	return c.do(ctx, "/recover", body, nil)
}

func (c *HTTPAuthClient) do(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gotrue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Code             string `json:"error_code"`
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
			Msg              string `json:"msg"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(data, &e)

		msg := e.Msg
		if msg == "" {
			msg = e.ErrorDescription
		}
		if msg == "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Code: e.Code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
