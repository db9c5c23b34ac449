// Package client talks to the course platform API on behalf of one session.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courseplatform/backend/importer"
	"courseplatform/backend/utils"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

var ErrNoSession = errors.New("not logged in")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	http    *resty.Client
	store   SessionStore
	session *Session
	now     func() time.Time
}

func New(baseURL string, store SessionStore) *Client {
	if store == nil {
		store = &MemorySessionStore{}
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(60 * time.Second).
			SetHeader("Accept", "application/json"),
		store: store,
		now:   time.Now,
	}
}

// Session returns the current session or nil.
func (c *Client) Session() *Session {
	return c.session
}

// Restore loads a previously saved session.
func (c *Client) Restore() (*Session, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	c.session = session
	return session, nil
}

type authResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var res authResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res, false); err != nil {
		return nil, err
	}
	return c.remember(res)
}

// Refresh trades the current token for a new one.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	var res authResult
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, &res, true); err != nil {
		return nil, err
	}
	return c.remember(res)
}

func (c *Client) remember(res authResult) (*Session, error) {
	c.session = &Session{Token: res.Token, User: res.User, SavedAt: c.now()}
	if err := c.store.Save(c.session); err != nil {
		return nil, err
	}
	return c.session, nil
}

func (c *Client) Logout() error {
	c.session = nil
	return c.store.Clear()
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res, true); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Import posts a payload to the course import endpoint.
func (c *Client) Import(ctx context.Context, courseID uint, p *importer.Payload) (importer.Counts, error) {
	var res struct {
		Counts importer.Counts `json:"counts"`
	}
	path := fmt.Sprintf("/courses/%d/import", courseID)
	if err := c.do(ctx, http.MethodPost, path, p, &res, true); err != nil {
		return importer.Counts{}, err
	}
	return res.Counts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, auth bool) error {
	req := c.http.R().SetContext(ctx).SetError(&utils.ErrorResponse{})
	if auth {
		if c.session == nil || c.session.Token == "" {
			return ErrNoSession
		}
		req.SetAuthToken(c.session.Token)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
		if e, ok := resp.Error().(*utils.ErrorResponse); ok && e.Message != "" {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}
