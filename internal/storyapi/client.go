package storyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service is the set of remote operations the client core depends on. It is
// implemented by *Client and can be faked in tests.
type Service interface {
	Login(ctx context.Context, username, password string) (AuthResponse, error)
	Signup(ctx context.Context, username, password, name string) (AuthResponse, error)
	GetUser(ctx context.Context, username, token string) (User, error)
	GetStories(ctx context.Context) ([]Story, error)
	CreateStory(ctx context.Context, token string, story NewStory) (Story, error)
	DeleteStory(ctx context.Context, token, storyID string) error
	AddFavorite(ctx context.Context, username, token, storyID string) (User, error)
	RemoveFavorite(ctx context.Context, username, token, storyID string) (User, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the story service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "https://hack-or-snooze-v3.herokuapp.com"
	defaultUserAgent = "snooze/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given base URL. An empty value uses the
// public service.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login exchanges a username and password for a token and the user record.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var payload AuthResponse
	body := authRequest{User: Credentials{Username: username, Password: password}}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Signup registers a new account and returns its token and user record.
func (c *Client) Signup(ctx context.Context, username, password, name string) (AuthResponse, error) {
	var payload AuthResponse
	body := authRequest{User: Credentials{Username: username, Password: password, Name: name}}
	if err := c.do(ctx, http.MethodPost, "/signup", nil, body, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// GetUser fetches a user's profile, favorites and stories.
func (c *Client) GetUser(ctx context.Context, username, token string) (User, error) {
	if strings.TrimSpace(username) == "" {
		return User{}, fmt.Errorf("username required: %w", ErrValidation)
	}
	var payload UserResponse
	path := "/users/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodGet, path, tokenQuery(token), nil, &payload); err != nil {
		return User{}, err
	}
	return payload.User, nil
}

// GetStories fetches the full story list in server order.
func (c *Client) GetStories(ctx context.Context) ([]Story, error) {
	var payload StoryListResponse
	if err := c.do(ctx, http.MethodGet, "/stories", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Stories, nil
}

// CreateStory submits a new story and returns it with its assigned id.
func (c *Client) CreateStory(ctx context.Context, token string, story NewStory) (Story, error) {
	var payload StoryResponse
	body := createStoryRequest{Token: token, Story: story}
	if err := c.do(ctx, http.MethodPost, "/stories", nil, body, &payload); err != nil {
		return Story{}, err
	}
	return payload.Story, nil
}

// DeleteStory removes a story owned by the token's user.
func (c *Client) DeleteStory(ctx context.Context, token, storyID string) error {
	if strings.TrimSpace(storyID) == "" {
		return fmt.Errorf("story id required: %w", ErrValidation)
	}
	path := "/stories/" + url.PathEscape(storyID)
	return c.do(ctx, http.MethodDelete, path, tokenQuery(token), nil, nil)
}

// AddFavorite marks a story as a favorite of username.
func (c *Client) AddFavorite(ctx context.Context, username, token, storyID string) (User, error) {
	return c.favorite(ctx, http.MethodPost, username, token, storyID)
}

// RemoveFavorite unmarks a favorite of username.
func (c *Client) RemoveFavorite(ctx context.Context, username, token, storyID string) (User, error) {
	return c.favorite(ctx, http.MethodDelete, username, token, storyID)
}

func (c *Client) favorite(ctx context.Context, method, username, token, storyID string) (User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(storyID) == "" {
		return User{}, fmt.Errorf("username and story id required: %w", ErrValidation)
	}
	var payload UserResponse
	path := "/users/" + url.PathEscape(username) + "/favorites/" + url.PathEscape(storyID)
	if err := c.do(ctx, method, path, nil, tokenRequest{Token: token}, &payload); err != nil {
		return User{}, err
	}
	return payload.User, nil
}

func tokenQuery(token string) url.Values {
	values := url.Values{}
	values.Set("token", token)
	return values
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp, path)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, path string) error {
	apiErr := &APIError{Status: resp.StatusCode, Path: path}
	var envelope ErrorResponse
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(data, &envelope) == nil {
		apiErr.Title = envelope.Error.Title
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
