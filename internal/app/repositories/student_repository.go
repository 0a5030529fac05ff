package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/dberrors"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

// StudentRepository handles student profile rows
type StudentRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db Querier) *StudentRepository {
	return &StudentRepository{db: db, sb: statementBuilder}
}

// CreateStudent inserts the caller's profile. The row id is always the
// caller's id, whatever student.ID holds.
func (r *StudentRepository) CreateStudent(ctx context.Context, caller *models.Caller, student models.Student) error {
	if caller == nil {
		return apperrors.ErrUnauthorized
	}

	sql, args, err := r.sb.Insert("students").
		Columns("id", "first_name", "last_name", "phone").
		Values(caller.UserID, student.FirstName, student.LastName, student.Phone).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", caller.UserID).Msg("Error executing create student query")
		return dberrors.Classify(err, "create student")
	}
	return nil
}

// GetStudent returns apperrors.ErrNotFound when the caller has no profile
func (r *StudentRepository) GetStudent(ctx context.Context, caller *models.Caller) (*models.Student, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}

	sql, args, err := r.sb.Select("id", "first_name", "last_name", "phone", "created_at").
		From("students").
		Where(squirrel.Eq{"id": caller.UserID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var s models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.FirstName, &s.LastName, &s.Phone, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, dberrors.Classify(err, "get student")
	}
	return &s, nil
}
