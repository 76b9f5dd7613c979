// Package api implements the HTTP client for the mapsketch server: session
// handling (register/login/logout) and document persistence, including the
// administrative endpoints.
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
	"sync"
	"time"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geojson"
	"github.com/mapsketch/mapsketch/internal/logging"
)

// DocumentInfo describes one stored document in the administrative listing.
type DocumentInfo struct {
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Client talks to the mapsketch server. The bearer token obtained at
// login/registration is attached to every subsequent request. The session
// fields are guarded so requests issued from the autosave timer goroutine
// can overlap a login or logout on the command loop.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu       sync.RWMutex
	token    string
	username string
	role     string
}

func New(baseURL string, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With("module", "api_client"),
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Username returns the authenticated username, empty when logged out.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Role returns the authenticated role, empty when logged out.
func (c *Client) Role() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

// LoggedIn reports whether the client holds a session token.
func (c *Client) LoggedIn() bool {
	return c.Token() != ""
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/register", username, password)
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) error {
	var session sessionResponse
	err := c.do(ctx, http.MethodPost, path, credentialsRequest{Username: username, Password: password}, &session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = session.Token
	c.username = session.Username
	c.role = session.Role
	c.mu.Unlock()
	return nil
}

// Logout tells the server the session is over and discards the local token.
// The server keeps no revocation state, so discarding the token is what
// actually ends the session on this machine.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.mu.Lock()
	c.token = ""
	c.username = ""
	c.role = ""
	c.mu.Unlock()
	return err
}

type saveRequest struct {
	Name    string          `json:"name"`
	GeoJSON json.RawMessage `json:"geojson"`
}

// SaveDocument persists the feature collection under the given name,
// replacing any previous payload.
func (c *Client) SaveDocument(ctx context.Context, name string, fc *geojson.FeatureCollection) error {
	payload, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/documents", saveRequest{Name: name, GeoJSON: payload}, nil)
}

// LoadDocument fetches the named document.
func (c *Client) LoadDocument(ctx context.Context, name string) (*geojson.FeatureCollection, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+url.PathEscape(name), nil, &raw); err != nil {
		return nil, err
	}
	return geojson.Decode(raw)
}

// ListDocuments returns the caller's document names, newest first.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

type exportResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ExportDocument asks the server to snapshot the named document to object
// storage and returns a time-limited download URL.
func (c *Client) ExportDocument(ctx context.Context, name string) (string, error) {
	var resp exportResponse
	path := "/api/documents/" + url.PathEscape(name) + "/export"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// AdminListDocuments returns every stored document across all owners.
// Requires the admin role.
func (c *Client) AdminListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var infos []DocumentInfo
	if err := c.do(ctx, http.MethodGet, "/api/admin/documents", nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// AdminLoadDocument fetches another user's document. Requires the admin role.
func (c *Client) AdminLoadDocument(ctx context.Context, owner, name string) (*geojson.FeatureCollection, error) {
	var raw json.RawMessage
	path := "/api/admin/documents/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return geojson.Decode(raw)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorFromResponse maps HTTP status codes onto the shared sentinel errors
// so callers can use errors.Is regardless of transport.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	detail := body.Message
	if detail == "" {
		detail = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = common.ErrInvalidInput
	case http.StatusUnauthorized:
		sentinel = common.ErrUnauthenticated
	case http.StatusForbidden:
		sentinel = common.ErrPermissionDenied
	case http.StatusNotFound:
		sentinel = common.ErrNotFound
	case http.StatusConflict:
		sentinel = common.ErrUsernameTaken
	case http.StatusUnprocessableEntity:
		sentinel = common.ErrMalformedDocument
	default:
		sentinel = common.ErrInternal
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
