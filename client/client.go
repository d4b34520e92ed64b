// Package client implements the HTTP client for the telephony backend.
// The backend uses cookie-based sessions, so every request goes through
// one http.Client sharing a cookie jar. All failures are reported as
// *Error with a closed classification (see errors.go).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// defaultAuthCheckTimeout bounds the session-check request so a hung
	// backend cannot block startup.
	defaultAuthCheckTimeout = 5 * time.Second

	// maxResponseBody caps how much of a response we read when decoding.
	maxResponseBody = 1 << 20
)

// Client talks to the telephony backend.
type Client struct {
	baseURL          string
	http             *http.Client
	authCheckTimeout time.Duration
	logger           *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller is
// responsible for attaching a cookie jar if session cookies are needed.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithAuthCheckTimeout overrides the session-check timeout.
func WithAuthCheckTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.authCheckTimeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{Jar: jar},
		authCheckTimeout: defaultAuthCheckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return c, nil
}

// do issues one JSON request and decodes the response into out (when
// non-nil). fallback is the generic user message used when the server
// supplies none.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return &Error{Kind: KindValidation, Message: "invalid request payload", Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return networkError(err, fallback)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return networkError(err, fallback)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return statusError(resp.StatusCode, eb, fallback)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{
				Kind:       KindServer,
				StatusCode: resp.StatusCode,
				Message:    "invalid response from server",
				Err:        err,
			}
		}
	}
	return nil
}

// Login authenticates with POST /login. On success the session cookie
// lands in the jar; the caller is expected to mark the session
// authenticated without a further round trip.
func (c *Client) Login(ctx context.Context, req LoginRequest) error {
	return c.do(ctx, http.MethodPost, "/login", req, nil, "login failed")
}

// Register creates an account with POST /register. It does not
// authenticate the session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/register", req, nil, "registration failed")
}

// CheckAuth asks the backend whether the session cookie is still valid.
// The request carries a hard timeout; a timeout classifies as a network
// failure, never as an authentication rejection.
func (c *Client) CheckAuth(ctx context.Context) (*CheckAuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.authCheckTimeout)
	defer cancel()
	var res CheckAuthResult
	if err := c.do(ctx, http.MethodGet, "/check-auth", nil, &res, "authentication check failed"); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout ends the backend session with POST /logout. Best effort: the
// caller clears local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, "logout failed")
}

// InitiateCall starts an outbound call and returns the backend-assigned
// call SID. A 2xx response without a SID is a protocol violation and is
// reported as a server error.
func (c *Client) InitiateCall(ctx context.Context, phoneNumber string) (string, error) {
	var res initiateCallResponse
	err := c.do(ctx, http.MethodPost, "/initiateCall",
		initiateCallRequest{PhoneNumber: phoneNumber}, &res, "failed to initiate call")
	if err != nil {
		return "", err
	}
	if res.CallSID == "" {
		return "", &Error{Kind: KindServer, Message: "invalid response from server"}
	}
	return res.CallSID, nil
}

// EndCall asks the backend to terminate the call with the given SID.
func (c *Client) EndCall(ctx context.Context, callSID string) error {
	return c.do(ctx, http.MethodPost, "/endCall",
		endCallRequest{CallSID: callSID}, nil, "failed to end call")
}

// CallHistory fetches the user's call log. A response without a calls
// array is treated as empty, not as an error shape worth crashing over.
func (c *Client) CallHistory(ctx context.Context) ([]CallRecord, error) {
	var res historyResponse
	if err := c.do(ctx, http.MethodGet, "/calls/history", nil, &res, "failed to fetch call history"); err != nil {
		return nil, err
	}
	if res.Calls == nil {
		return []CallRecord{}, nil
	}
	return res.Calls, nil
}

// ListContacts fetches contacts, optionally filtered by a search term.
func (c *Client) ListContacts(ctx context.Context, search string) ([]Contact, error) {
	path := "/contacts"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var contacts []Contact
	if err := c.do(ctx, http.MethodGet, path, nil, &contacts, "failed to fetch contacts"); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	return contacts, nil
}

// CreateContact adds a contact and returns it with the backend-assigned ID.
func (c *Client) CreateContact(ctx context.Context, contact Contact) (*Contact, error) {
	var created Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", contact, &created, "failed to save contact"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateContact replaces the contact with the given ID.
func (c *Client) UpdateContact(ctx context.Context, id string, contact Contact) error {
	return c.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), contact, nil, "failed to save contact")
}

// DeleteContact removes the contact with the given ID.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil, "failed to delete contact")
}
