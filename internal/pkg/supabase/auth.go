package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a GoTrue user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is a GoTrue token response
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// Expiry returns the absolute expiry, deriving it from ExpiresIn when the
// service omitted expires_at.
func (s *Session) Expiry(now time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0).UTC()
	}
	return now.Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges an email/password pair for a session
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a user. The session is nil when the project requires
// email confirmation before the first sign-in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, *Session, error) {
	var resp struct {
		Session
		// Returned at the top level when no session is issued
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, nil, err
	}

	if resp.AccessToken != "" {
		session := resp.Session
		user := session.User
		return &user, &session, nil
	}
	if resp.ID == "" {
		return nil, nil, nil
	}
	return &User{ID: resp.ID, Email: resp.Email}, nil, nil
}

// SignOut revokes the refresh tokens of the session that owns accessToken
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: accessToken,
	}, nil)
}

// GetUser asks GoTrue who owns accessToken
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: accessToken,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDeleteUser removes a user with the service-role key
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	if c.serviceKey == "" {
		return ErrNoServiceKey
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/auth/v1/admin/users/" + url.PathEscape(userID),
		apiKey: c.serviceKey,
		bearer: c.serviceKey,
	}, nil)
}

// CanVerifyLocally reports whether VerifyToken can run without a network call
func (c *Client) CanVerifyLocally() bool {
	return c.jwtSecret != ""
}

// VerifyToken checks an access token's HMAC signature and expiry with the
// project JWT secret.
func (c *Client) VerifyToken(accessToken string) (*User, error) {
	if c.jwtSecret == "" {
		return nil, ErrNoJWTSecret
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("jwt parse: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("jwt invalid")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("jwt has no subject")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &User{ID: sub, Email: email, Role: role}, nil
}

// Health checks that GoTrue answers
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}
