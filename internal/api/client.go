// Package api is the typed HTTP client for the task-manager backend. Every
// request goes through one shared Client: the outgoing side attaches the
// persisted bearer token, the incoming side intercepts 401s and clears the
// persisted session before the error reaches the caller. No retries, no
// caching, no request de-duplication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"taskman/internal/storage"
)

// Client is the shared HTTP client. Domain endpoint groups (Auth, Tasks)
// hang off it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    *storage.Store
	convention Convention

	// onUnauthenticated runs after a 401 has cleared the persisted session.
	// The CLI installs the redirect-to-login analogue here.
	onUnauthenticated func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnauthenticatedHook sets the callback invoked after a 401 response has
// cleared the persisted session state.
func WithUnauthenticatedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthenticated = fn }
}

// New creates a Client for the given base URL, backend convention, and
// session storage.
func New(baseURL string, conv Convention, st *storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		storage:    st,
		convention: conv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convention returns the backend convention the client speaks.
func (c *Client) Convention() Convention { return c.convention }

// Auth returns the auth endpoint group.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Tasks returns the tasks endpoint group.
func (c *Client) Tasks() *TasksAPI { return &TasksAPI{c: c} }

// do performs one JSON request. A non-nil out receives the decoded 2xx body.
// Non-2xx responses become *Error; failures with no response at all are
// returned as plain errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.attachToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
		if c.onUnauthenticated != nil {
			c.onUnauthenticated()
		}
		return &Error{StatusCode: resp.StatusCode, Body: decodeErrorBody(data, c.convention)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Body: decodeErrorBody(data, c.convention)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// attachToken adds the persisted bearer token to req, if one exists. It
// never fails: a missing or unreadable token just means an anonymous
// request.
func (c *Client) attachToken(req *http.Request) {
	tok, ok, err := c.storage.Get(storage.KeyAuthToken)
	if err != nil || !ok || tok == "" {
		return
	}
	bearer := oauth2.Token{AccessToken: tok, TokenType: "Bearer"}
	bearer.SetAuthHeader(req)
}

// clearSession drops the persisted token and user after a 401.
func (c *Client) clearSession() {
	_ = c.storage.Delete(storage.KeyAuthToken)
	_ = c.storage.Delete(storage.KeyUser)
}
