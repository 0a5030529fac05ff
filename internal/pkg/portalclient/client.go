// Package portalclient is a typed client for the consultation portal API.
package portalclient

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

	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
)

// DefaultTimeout applies when Config.Timeout is zero
const DefaultTimeout = 30 * time.Second

// Client talks to a running portal API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// APIError is a non-action HTTP failure
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal api: %d %s", e.Status, e.Message)
}

// New creates a client for cfg.BaseURL
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// Token returns the access token the client sends
func (c *Client) Token() string {
	return c.token
}

// WithToken returns a copy of the client authenticated with token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Login signs in with email and password
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.ActionResult[models.Session], error) {
	var res dto.ActionResult[models.Session]
	err := c.action(ctx, http.MethodPost, "/api/v1/auth/login", req, &res, &res.Unauthorized)
	return res, err
}

// Signup creates an account and student profile
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (dto.ActionResult[models.Session], error) {
	var res dto.ActionResult[models.Session]
	err := c.action(ctx, http.MethodPost, "/api/v1/auth/signup", req, &res, &res.Unauthorized)
	return res, err
}

// Logout ends the current session
func (c *Client) Logout(ctx context.Context) (dto.ActionResult[dto.Empty], error) {
	var res dto.ActionResult[dto.Empty]
	err := c.action(ctx, http.MethodPost, "/api/v1/auth/logout", nil, &res, &res.Unauthorized)
	return res, err
}

// Dashboard loads the caller's profile and consultations
func (c *Client) Dashboard(ctx context.Context) (dto.ActionResult[dto.DashboardResponse], error) {
	var res dto.ActionResult[dto.DashboardResponse]
	err := c.action(ctx, http.MethodGet, "/api/v1/dashboard", nil, &res, &res.Unauthorized)
	return res, err
}

// CreateConsultation books a consultation
func (c *Client) CreateConsultation(ctx context.Context, req dto.CreateConsultationRequest) (dto.ActionResult[models.Consultation], error) {
	var res dto.ActionResult[models.Consultation]
	err := c.action(ctx, http.MethodPost, "/api/v1/consultations", req, &res, &res.Unauthorized)
	return res, err
}

// ToggleConsultation flips completion; isComplete is the state the caller sees
func (c *Client) ToggleConsultation(ctx context.Context, id string, isComplete bool) (dto.ActionResult[dto.Empty], error) {
	var res dto.ActionResult[dto.Empty]
	body := dto.ToggleConsultationBody{IsComplete: &isComplete}
	err := c.action(ctx, http.MethodPatch, "/api/v1/consultations/"+url.PathEscape(id)+"/toggle", body, &res, &res.Unauthorized)
	return res, err
}

// CreateStudentRecord stores the caller's profile through the plain endpoint
func (c *Client) CreateStudentRecord(ctx context.Context, req dto.CreateStudentRequest) error {
	status, body, err := c.send(ctx, http.MethodPost, "/api/students", req)
	if err != nil {
		return err
	}
	if status == http.StatusCreated {
		return nil
	}

	var e dto.ErrorResponse
	if jsonErr := json.Unmarshal(body, &e); jsonErr != nil || e.Error == "" {
		e.Error = http.StatusText(status)
	}
	return &APIError{Status: status, Message: e.Error}
}

// action decodes an action result. A 401 still carries a result body.
func (c *Client) action(ctx context.Context, method, path string, in, out interface{}, unauthorized *bool) error {
	status, body, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusUnauthorized:
	default:
		var e dto.ErrorResponse
		if jsonErr := json.Unmarshal(body, &e); jsonErr != nil || e.Error == "" {
			e.Error = http.StatusText(status)
		}
		return &APIError{Status: status, Message: e.Error}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	*unauthorized = status == http.StatusUnauthorized
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, in interface{}) (int, []byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
