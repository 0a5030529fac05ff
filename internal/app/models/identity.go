package models

import "time"

// Caller is the authenticated principal attached to a request
type Caller struct {
	UserID      string
	Email       string
	AccessToken string
}

// Identity is an account as reported by the identity service
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an issued credential pair
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *Identity `json:"user,omitempty"`
}

// Caller converts the session into the principal it authenticates
func (s *Session) Caller() *Caller {
	if s == nil || s.User == nil {
		return nil
	}
	return &Caller{UserID: s.User.ID, Email: s.User.Email, AccessToken: s.AccessToken}
}

// Account is a self-hosted credential row
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthSession is a self-hosted issued token, revoked on sign-out
type AuthSession struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
