package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/dberrors"
)

// SessionRepository tracks issued access tokens by their JWT id
type SessionRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db Querier) *SessionRepository {
	return &SessionRepository{db: db, sb: statementBuilder}
}

// WithTx returns a repository bound to tx
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx, sb: r.sb}
}

// CreateSession records a token id issued to accountID
func (r *SessionRepository) CreateSession(ctx context.Context, id, accountID string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "account_id", "expires_at").
		Values(id, accountID, expiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dberrors.Classify(err, "create session")
	}
	return nil
}

// GetSession returns apperrors.ErrNotFound for unknown ids
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*models.AuthSession, error) {
	sql, args, err := r.sb.Select("id", "account_id", "expires_at", "revoked_at", "created_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var s models.AuthSession
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.AccountID, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, dberrors.Classify(err, "get session")
	}
	return &s, nil
}

// RevokeSession marks a session revoked. Revoking twice is not an error.
func (r *SessionRepository) RevokeSession(ctx context.Context, id string) error {
	sql, args, err := r.sb.Update("sessions").
		Set("revoked_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dberrors.Classify(err, "revoke session")
	}
	return nil
}
