// Package identity is the self-hosted identity provider used by the
// PostgreSQL backend. Accounts hold a bcrypt hash and every issued access
// token has a session row so sign-out can revoke it.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/auth"
)

// Messages mirroring the hosted identity service
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
)

// AccountStore persists credential rows
type AccountStore interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// SessionStore persists issued token ids
type SessionStore interface {
	CreateSession(ctx context.Context, id, accountID string, expiresAt time.Time) error
	GetSession(ctx context.Context, id string) (*models.AuthSession, error)
	RevokeSession(ctx context.Context, id string) error
}

// Transactor runs fn with stores bound to one transaction
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, accounts AccountStore, sessions SessionStore) error) error
}

// LocalProvider implements the identity side of the backend on PostgreSQL
type LocalProvider struct {
	accounts AccountStore
	sessions SessionStore
	tx       Transactor
	tokens   *auth.JWTService
	hasher   *auth.PasswordHasher
	now      func() time.Time
	logger   zerolog.Logger
}

// NewLocalProvider creates a LocalProvider
func NewLocalProvider(accounts AccountStore, sessions SessionStore, tx Transactor, tokens *auth.JWTService, hasher *auth.PasswordHasher, logger zerolog.Logger) *LocalProvider {
	return &LocalProvider{
		accounts: accounts,
		sessions: sessions,
		tx:       tx,
		tokens:   tokens,
		hasher:   hasher,
		now:      time.Now,
		logger:   logger,
	}
}

// SignIn checks the password and issues a fresh session
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	acc, err := p.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !p.hasher.Check(acc.PasswordHash, password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	return p.issue(ctx, p.sessions, acc)
}

// SignUp creates the account and its first session in one transaction
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*models.Identity, *models.Session, error) {
	hash, err := p.hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	var (
		identity *models.Identity
		session  *models.Session
	)
	err = p.tx.InTx(ctx, func(ctx context.Context, accounts AccountStore, sessions SessionStore) error {
		acc, err := accounts.CreateAccount(ctx, email, hash)
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewCustomError(apperrors.ErrIdentityRejected, MsgAlreadyRegistered)
		}
		if err != nil {
			return err
		}

		session, err = p.issue(ctx, sessions, acc)
		if err != nil {
			return err
		}
		identity = &models.Identity{ID: acc.ID, Email: acc.Email}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

func (p *LocalProvider) issue(ctx context.Context, sessions SessionStore, acc *models.Account) (*models.Session, error) {
	issued, err := p.tokens.IssueAccessToken(acc.ID, acc.Email)
	if err != nil {
		return nil, err
	}
	if err := sessions.CreateSession(ctx, issued.SessionID, acc.ID, issued.ExpiresAt); err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken: issued.Token,
		TokenType:   "bearer",
		ExpiresIn:   int64(issued.ExpiresIn / time.Second),
		ExpiresAt:   issued.ExpiresAt.UTC(),
		User:        &models.Identity{ID: acc.ID, Email: acc.Email},
	}, nil
}

// SignOut revokes the session behind the caller's token
func (p *LocalProvider) SignOut(ctx context.Context, caller *models.Caller) error {
	claims, err := p.tokens.ValidateToken(caller.AccessToken)
	if err != nil {
		return apperrors.ErrTokenInvalid
	}
	return p.sessions.RevokeSession(ctx, claims.ID)
}

// ResolveCaller accepts a token only while its session is live
func (p *LocalProvider) ResolveCaller(ctx context.Context, accessToken string) (*models.Caller, error) {
	claims, err := p.tokens.ValidateToken(accessToken)
	if errors.Is(err, auth.ErrExpiredToken) {
		return nil, apperrors.ErrTokenExpired
	}
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	s, err := p.sessions.GetSession(ctx, claims.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if s.RevokedAt != nil || s.AccountID != claims.Subject {
		return nil, apperrors.ErrTokenInvalid
	}
	if !s.ExpiresAt.After(p.now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return &models.Caller{UserID: claims.Subject, Email: claims.Email, AccessToken: accessToken}, nil
}

// DeleteIdentity removes an account. A missing account is not an error.
func (p *LocalProvider) DeleteIdentity(ctx context.Context, identityID string) error {
	err := p.accounts.DeleteAccount(ctx, identityID)
	if errors.Is(err, apperrors.ErrNotFound) {
		p.logger.Debug().Str("userID", identityID).Msg("Identity already gone")
		return nil
	}
	return err
}
