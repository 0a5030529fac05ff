package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/dberrors"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

// accountEmailConstraint is the unique index on accounts.email
const accountEmailConstraint = "accounts_email_key"

// AccountRepository handles credential rows of the self-hosted identity provider
type AccountRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{db: db, sb: statementBuilder}
}

// WithTx returns a repository bound to tx
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{db: tx, sb: r.sb}
}

// CreateAccount inserts an account and returns it with its generated id.
// A taken email yields apperrors.ErrConflict.
func (r *AccountRepository) CreateAccount(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	sql, args, err := r.sb.Insert("accounts").
		Columns("email", "password_hash").
		Values(normalizeEmail(email), passwordHash).
		Suffix("RETURNING id, email, password_hash, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create account query: %w", err)
	}

	var acc models.Account
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, accountEmailConstraint) {
			return nil, apperrors.ErrConflict
		}
		logger.Error().Err(err).Msg("Error executing create account query")
		return nil, dberrors.Classify(err, "create account")
	}
	return &acc, nil
}

// GetAccountByEmail returns apperrors.ErrNotFound when no account matches
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "created_at").
		From("accounts").
		Where(squirrel.Eq{"email": normalizeEmail(email)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	var acc models.Account
	err = r.db.QueryRow(ctx, sql, args...).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, dberrors.Classify(err, "get account")
	}
	return &acc, nil
}

// DeleteAccount removes an account; its sessions and student row cascade
func (r *AccountRepository) DeleteAccount(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("accounts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete account query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Classify(err, "delete account")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
