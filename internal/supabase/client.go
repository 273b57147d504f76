// Package supabase talks to the managed auth backend: e-mail/password
// sign-up and sign-in plus the profiles table.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"habit-planner/internal/model"
)

const (
	// DefaultTimeout bounds every call to the backend.
	DefaultTimeout = 10 * time.Second

	profilesTable = "profiles"
)

// APIError carries the backend's message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ErrNotConfigured is returned when no backend URL or key is set.
var ErrNotConfigured = errors.New("account backend is not configured")

// Client implements the account calls used by the app.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
}

// New creates a client for baseURL authenticated with the project's anon key.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Configured reports whether the client can reach a backend.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type tokenResponse struct {
	AccessToken  string            `json:"access_token"`
	TokenType    string            `json:"token_type"`
	ExpiresIn    int               `json:"expires_in"`
	RefreshToken string            `json:"refresh_token"`
	User         *model.AccountUser `json:"user"`
}

// SignUp registers a new account. Metadata ends up in user_metadata.
// When e-mail confirmation is pending the result has no session.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.AuthResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, c.apiKey, credentials{Email: email, Password: password, Data: metadata}, &raw); err != nil {
		return nil, err
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode sign-up response: %w", err)
	}
	if tok.User != nil {
		return c.result(tok)
	}

	// Without a session the backend answers with the bare user object.
	var user model.AccountUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode sign-up user: %w", err)
	}
	return &model.AuthResult{User: user}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.AuthResult, error) {
	var tok tokenResponse
	query := url.Values{"grant_type": {"password"}}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", query, c.apiKey, credentials{Email: email, Password: password}, &tok); err != nil {
		return nil, err
	}
	if tok.User == nil {
		return nil, fmt.Errorf("sign-in response has no user")
	}
	return c.result(tok)
}

// InsertProfile writes one row to the profiles table, authorised as the
// session's user or, without a session, with the anon key.
func (c *Client) InsertProfile(ctx context.Context, session *model.Session, profile model.Profile) error {
	bearer := c.apiKey
	if session != nil && session.AccessToken != "" {
		bearer = session.AccessToken
	}
	return c.do(ctx, http.MethodPost, "/rest/v1/"+profilesTable, nil, bearer, []model.Profile{profile}, nil)
}

func (c *Client) result(tok tokenResponse) (*model.AuthResult, error) {
	res := &model.AuthResult{User: *tok.User}
	if tok.AccessToken == "" {
		return res, nil
	}
	session := &model.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		User:         *tok.User,
	}
	if tok.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if exp, ok := tokenExpiry(tok.AccessToken); ok {
		session.ExpiresAt = exp
	}
	res.Session = session
	return res, nil
}

// tokenExpiry reads exp from the access token. The signature is the
// backend's concern; the client only needs the claim.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, bearer string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// The oauth2 transport adds the Authorization header.
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.http), src)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage picks the human-readable field from the backend's error body.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
			if strings.TrimSpace(m) != "" {
				return m
			}
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return http.StatusText(status)
}
