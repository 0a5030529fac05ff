// Package supabase is a small client for the hosted Supabase project: GoTrue
// for identities and PostgREST for tables.
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

	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

// DefaultTimeout bounds every request to the project
const DefaultTimeout = 30 * time.Second

var (
	// ErrNoRows is returned by Single when the filter matched nothing
	ErrNoRows = errors.New("supabase: no rows")
	// ErrNoServiceKey is returned by admin calls when no service-role key is configured
	ErrNoServiceKey = errors.New("supabase: service role key not configured")
	// ErrNoJWTSecret is returned by VerifyToken when no JWT secret is configured
	ErrNoJWTSecret = errors.New("supabase: jwt secret not configured")
)

// Config configures the client
type Config struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
	// HTTPClient overrides the default client, mainly for tests
	HTTPClient *http.Client
}

// Client talks to one Supabase project
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	jwtSecret  string
	http       *http.Client
}

// Error is a non-2xx response from GoTrue or PostgREST
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// New creates a Client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		jwtSecret:  cfg.JWTSecret,
		http:       httpClient,
	}, nil
}

// HasServiceKey reports whether admin endpoints are usable
func (c *Client) HasServiceKey() bool {
	return c.serviceKey != ""
}

// request is one call against the project
type request struct {
	method  string
	path    string
	query   url.Values
	apiKey  string
	bearer  string
	headers map[string]string
	body    interface{}
}

// do performs req and decodes a 2xx body into out when out is non-nil.
// Transport failures and 5xx responses are reported as service unavailable.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return apperrors.Unavailable(err)
	}

	apiKey := req.apiKey
	if apiKey == "" {
		apiKey = c.anonKey
	}
	bearer := req.bearer
	if bearer == "" {
		bearer = apiKey
	}
	httpReq.Header.Set("apikey", apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return apperrors.Unavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Unavailable(err)
	}

	if resp.StatusCode >= 500 {
		return apperrors.Unavailable(decodeError(resp.StatusCode, raw))
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads the error shapes used by GoTrue and PostgREST
func decodeError(status int, raw []byte) *Error {
	var body struct {
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
		ErrorCode        string          `json:"error_code"`
		Msg              string          `json:"msg"`
		Message          string          `json:"message"`
		Code             json.RawMessage `json:"code"`
	}
	e := &Error{Status: status}
	if err := json.Unmarshal(raw, &body); err != nil {
		e.Message = strings.TrimSpace(string(raw))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	e.Code = body.ErrorCode
	if e.Code == "" {
		// PostgREST sends a string code, GoTrue sometimes a numeric one
		var s string
		if json.Unmarshal(body.Code, &s) == nil {
			e.Code = s
		}
	}
	if e.Code == "" {
		e.Code = body.Error
	}

	for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
