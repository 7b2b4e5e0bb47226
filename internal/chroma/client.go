// Package chroma is an HTTP client for Chroma-compatible vector database
// servers. It speaks both the v1 and v2 path conventions, attaches
// authentication, and turns every failure into one of four typed errors.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vectoradmin/internal/contextutil"
)

// ConnectionMode selects how requests reach the server.
type ConnectionMode string

const (
	// ModeDirect sends requests to the configured base URL.
	ModeDirect ConnectionMode = "direct"
	// ModeProxy sends requests through the local same-origin relay.
	ModeProxy ConnectionMode = "proxy"
)

// AuthType selects which authentication header is attached.
type AuthType string

const (
	AuthNone         AuthType = "none"
	AuthBearer       AuthType = "bearer"
	AuthBasic        AuthType = "basic"
	AuthCustomHeader AuthType = "custom-header"
)

const (
	// DefaultTimeout bounds every request that does not set its own timeout.
	DefaultTimeout = 15 * time.Second
	// ProbeTimeout bounds detection probes.
	ProbeTimeout = 5 * time.Second
	// ProxyPrefix is the path the local relay is mounted on.
	ProxyPrefix = "/proxy"
	// DefaultTokenHeader carries the token for AuthCustomHeader.
	DefaultTokenHeader = "X-Chroma-Token"
)

// Credentials hold the secrets for the selected AuthType.
type Credentials struct {
	Token      string `json:"token,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	HeaderName string `json:"header_name,omitempty"`
}

// ConnectionConfig describes how to reach and authenticate against a server.
type ConnectionConfig struct {
	BaseURL     string         `json:"base_url"`
	Mode        ConnectionMode `json:"mode"`
	ProxyOrigin string         `json:"proxy_origin,omitempty"`
	AuthType    AuthType       `json:"auth_type"`
	Credentials Credentials    `json:"credentials"`
}

// Client issues requests against one server. It is safe for concurrent use.
type Client struct {
	conn       ConnectionConfig
	session    *Session
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for conn. A nil session starts a fresh one.
func NewClient(conn ConnectionConfig, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession()
	}
	c := &Client{
		conn:       conn,
		session:    session,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client reads its version from.
func (c *Client) Session() *Session {
	return c.session
}

// Connection returns the connection the client was built with.
func (c *Client) Connection() ConnectionConfig {
	return c.conn
}

// BasePath returns the operation path prefix for the currently detected
// version. It is resolved on every call because detection may change it.
func (c *Client) BasePath() string {
	return c.session.Paths().Prefix()
}

// ResolveRequestURL maps an API path to the URL actually requested.
// Proxy mode routes through the local relay so the remote origin is never
// contacted cross-origin; direct mode appends path to the base URL.
func (c *Client) ResolveRequestURL(path string) string {
	if c.conn.Mode == ModeProxy {
		return strings.TrimRight(c.conn.ProxyOrigin, "/") + ProxyPrefix + path
	}
	return strings.TrimRight(c.conn.BaseURL, "/") + path
}

// RequestOptions customise a single request.
type RequestOptions struct {
	Method  string
	Body    any
	Timeout time.Duration
	// AllowEmpty accepts an empty 2xx body and returns the zero value.
	AllowEmpty bool
}

// Issue performs one request and decodes the response into T. The body
// must pass T's structural contract (validate tags and Validate method)
// before it is returned.
func Issue[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var out T

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	logger := c.loggerFor(ctx)

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return out, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.ResolveRequestURL(path), body)
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authenticate(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(reqCtx, path, err, time.Since(start))
		logger.WarnContext(ctx, "chroma request failed", "method", method, "path", path, "kind", KindOf(err).String(), "error", err)
		return out, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, classifyTransportError(reqCtx, path, err, time.Since(start))
	}

	logger.DebugContext(ctx, "chroma request", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &HTTPError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(raw)),
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if opts.AllowEmpty {
			return out, nil
		}
		return out, &ValidationError{Path: path, Detail: "empty response body"}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &ValidationError{Path: path, Detail: err.Error()}
	}
	if err := checkShape(&out); err != nil {
		return out, &ValidationError{Path: path, Detail: err.Error()}
	}
	return out, nil
}

// DetectAPIVersion probes the v2 heartbeat and pins the session to v2 if
// it answers, otherwise to v1. Calling it again re-probes.
func (c *Client) DetectAPIVersion(ctx context.Context) APIVersion {
	version := VersionV1
	_, err := Issue[json.RawMessage](ctx, c, PathsFor(VersionV2).Heartbeat(), RequestOptions{Timeout: ProbeTimeout})
	if err == nil {
		version = VersionV2
	}
	c.session.SetVersion(version)
	c.loggerFor(ctx).InfoContext(ctx, "api version detected", "version", string(version))
	return version
}

func (c *Client) authenticate(req *http.Request) {
	creds := c.conn.Credentials
	switch c.conn.AuthType {
	case AuthBearer:
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
	case AuthBasic:
		if creds.Username != "" {
			req.SetBasicAuth(creds.Username, creds.Password)
		}
	case AuthCustomHeader:
		if creds.Token != "" {
			header := creds.HeaderName
			if header == "" {
				header = DefaultTokenHeader
			}
			req.Header.Set(header, creds.Token)
		}
	}
}

func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	l := contextutil.LoggerFromContext(ctx)
	if l == slog.Default() && c.logger != nil {
		return c.logger
	}
	return l
}

func classifyTransportError(reqCtx context.Context, path string, err error, elapsed time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Path: path, Elapsed: elapsed}
	}
	return newNetworkError(path, err)
}
