package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/consultdesk/internal/app/migrations"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

// openTestPool connects to TEST_DATABASE_URL when RUN_DB_INTEGRATION=true
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true and TEST_DATABASE_URL to run")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	require.NotEmpty(t, dsn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Up(ctx, pool, logger.Nop()))
	return pool
}

func TestIntegration_ConsultationLifecycle(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repos := NewRepositories(pool)

	acc, err := repos.Accounts.CreateAccount(ctx, uuid.NewString()+"@example.com", "hash")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Accounts.DeleteAccount(context.Background(), acc.ID) })

	owner := &models.Caller{UserID: acc.ID}
	require.NoError(t, repos.Students.CreateStudent(ctx, owner, models.Student{FirstName: "Jane", LastName: "Doe", Phone: "5551234"}))

	err = repos.Students.CreateStudent(ctx, owner, models.Student{FirstName: "Jane", LastName: "Doe", Phone: "5551234"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	created, err := repos.Consultations.CreateConsultation(ctx, owner, models.NewConsultation{FirstName: "Jane", LastName: "Doe", Reason: "Advising", Datetime: at})
	require.NoError(t, err)
	assert.False(t, created.IsComplete)
	assert.True(t, created.Datetime.Equal(at))

	stranger := &models.Caller{UserID: uuid.NewString()}
	n, err := repos.Consultations.SetConsultationComplete(ctx, stranger, created.ID, true)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repos.Consultations.SetConsultationComplete(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repos.Consultations.ListConsultations(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsComplete)
	assert.False(t, list[0].UpdatedAt.Before(list[0].CreatedAt))

	none, err := repos.Consultations.ListConsultations(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIntegration_Sessions(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repos := NewRepositories(pool)

	acc, err := repos.Accounts.CreateAccount(ctx, "  "+uuid.NewString()+"@Example.com", "hash")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Accounts.DeleteAccount(context.Background(), acc.ID) })

	found, err := repos.Accounts.GetAccountByEmail(ctx, acc.Email)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = repos.Accounts.CreateAccount(ctx, acc.Email, "hash")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	jti := uuid.NewString()
	require.NoError(t, repos.Sessions.CreateSession(ctx, jti, acc.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repos.Sessions.RevokeSession(ctx, jti))
	require.NoError(t, repos.Sessions.RevokeSession(ctx, jti))

	s, err := repos.Sessions.GetSession(ctx, jti)
	require.NoError(t, err)
	assert.NotNil(t, s.RevokedAt)
}
