package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/identity"
	"github.com/yigit/consultdesk/internal/app/migrations"
	"github.com/yigit/consultdesk/internal/app/repositories"
	"github.com/yigit/consultdesk/internal/config"
	"github.com/yigit/consultdesk/internal/db"
	"github.com/yigit/consultdesk/internal/pkg/auth"
	"github.com/yigit/consultdesk/internal/pkg/helpers"
)

// Postgres is the self-hosted backend. Identity, profiles and
// consultations all live in one database.
type Postgres struct {
	*identity.LocalProvider
	*repositories.StudentRepository
	*repositories.ConsultationRepository

	db *db.PostgresDB
}

// NewPostgres builds the backend on an open pool
func NewPostgres(database *db.PostgresDB, cfg *config.Config, logger zerolog.Logger) *Postgres {
	repos := repositories.NewRepositories(database.Pool)
	tokens := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	provider := identity.NewLocalProvider(
		repos.Accounts,
		repos.Sessions,
		identity.NewPgTransactor(database, repos.Accounts, repos.Sessions),
		tokens,
		auth.NewPasswordHasher(auth.BcryptCost),
		logger.With().Str("component", "identity").Logger(),
	)

	return &Postgres{
		LocalProvider:          provider,
		StudentRepository:      repos.Students,
		ConsultationRepository: repos.Consultations,
		db:                     database,
	}
}

// OpenPostgres connects, optionally migrates, and builds the backend
func OpenPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Postgres, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, database.Pool, logger); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return NewPostgres(database, cfg, logger), nil
}

// Ping checks the pool
func (b *Postgres) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

// Close closes the pool
func (b *Postgres) Close() {
	b.db.Close()
}
