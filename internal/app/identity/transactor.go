package identity

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/consultdesk/internal/app/repositories"
	"github.com/yigit/consultdesk/internal/db"
)

// PgTransactor binds the account and session repositories to a pgx transaction
type PgTransactor struct {
	db       *db.PostgresDB
	accounts *repositories.AccountRepository
	sessions *repositories.SessionRepository
}

// NewPgTransactor creates a PgTransactor
func NewPgTransactor(database *db.PostgresDB, accounts *repositories.AccountRepository, sessions *repositories.SessionRepository) *PgTransactor {
	return &PgTransactor{db: database, accounts: accounts, sessions: sessions}
}

// InTx implements Transactor
func (t *PgTransactor) InTx(ctx context.Context, fn func(ctx context.Context, accounts AccountStore, sessions SessionStore) error) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, t.accounts.WithTx(tx), t.sessions.WithTx(tx))
	})
}
