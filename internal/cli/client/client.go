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

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/models"
)

const (
	refreshCookieName = "refresh_token"
	requestIDHeader   = "X-Request-ID"
	defaultTimeout    = 30 * time.Second
)

// Client represents an HTTP client for the Net Worth Tracker API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new API client
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: log.With().Str("component", "api").Logger(),
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	method       string
	path         string
	token        string
	refreshToken string
	body         any
	out          any
}

// do sends the request and decodes a 2xx JSON body into call.out. The
// response is returned with its body closed, for headers and cookies.
func (c *Client) do(ctx context.Context, cl call) (*http.Response, error) {
	var body io.Reader
	if cl.body != nil {
		jsonData, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", cl.token))
	}
	if cl.refreshToken != "" {
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: cl.refreshToken})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", requestID).Str("path", cl.path).Msg("API request failed")
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return resp, &AuthError{Status: resp.StatusCode, Detail: parseDetail(data)}
	}

	if cl.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
			return resp, &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return resp, nil
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token. The refresh token comes
// back as an httpOnly cookie and is copied into the grant.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenGrant, error) {
	var grant models.TokenGrant
	resp, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   LoginRequest{Email: email, Password: password},
		out:    &grant,
	})
	if err != nil {
		return nil, err
	}

	grant.RefreshToken = refreshCookie(resp)
	return &grant, nil
}

// Register creates a new user
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	var user models.UserProfile
	if _, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   req,
		out:    &user,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCurrentUser returns the profile behind token
func (c *Client) GetCurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	var user models.UserProfile
	if _, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/v1/auth/me",
		token:  token,
		out:    &user,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges the refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenGrant, error) {
	var grant models.TokenGrant
	resp, err := c.do(ctx, call{
		method:       http.MethodPost,
		path:         "/api/v1/auth/refresh",
		refreshToken: refreshToken,
		body:         struct{}{},
		out:          &grant,
	})
	if err != nil {
		return nil, err
	}

	grant.RefreshToken = refreshCookie(resp)
	return &grant, nil
}

// Logout revokes the refresh token on the server
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	_, err := c.do(ctx, call{
		method:       http.MethodPost,
		path:         "/api/v1/auth/logout",
		refreshToken: refreshToken,
	})
	return err
}

// GetDashboard returns the net worth summary
func (c *Client) GetDashboard(ctx context.Context, token string) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	if _, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/v1/dashboard",
		token:  token,
		out:    &dashboard,
	}); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// ListAccountGroups returns every account group with its totals
func (c *Client) ListAccountGroups(ctx context.Context, token string) ([]models.AccountGroup, error) {
	var groups []models.AccountGroup
	if _, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/v1/account-groups",
		token:  token,
		out:    &groups,
	}); err != nil {
		return nil, err
	}
	return groups, nil
}

func refreshCookie(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie.Value
		}
	}
	return ""
}
