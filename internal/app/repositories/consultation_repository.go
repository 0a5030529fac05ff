package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/dberrors"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

var consultationColumns = []string{
	"id", "user_id", "first_name", "last_name", "reason",
	"datetime", "is_complete", "created_at", "updated_at",
}

// ConsultationRepository handles consultation rows. Every statement filters
// on user_id.
type ConsultationRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewConsultationRepository creates a new ConsultationRepository
func NewConsultationRepository(db Querier) *ConsultationRepository {
	return &ConsultationRepository{db: db, sb: statementBuilder}
}

func (r *ConsultationRepository) insertQuery(userID string, c models.NewConsultation) squirrel.InsertBuilder {
	return r.sb.Insert("consultations").
		Columns("user_id", "first_name", "last_name", "reason", "datetime").
		Values(userID, c.FirstName, c.LastName, c.Reason, c.Datetime).
		Suffix("RETURNING " + joinColumns())
}

func (r *ConsultationRepository) completeQuery(userID, id string, complete bool) squirrel.UpdateBuilder {
	return r.sb.Update("consultations").
		Set("is_complete", complete).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "user_id": userID})
}

func (r *ConsultationRepository) listQuery(userID string) squirrel.SelectBuilder {
	return r.sb.Select(consultationColumns...).
		From("consultations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("datetime ASC")
}

// CreateConsultation inserts a consultation owned by caller
func (r *ConsultationRepository) CreateConsultation(ctx context.Context, caller *models.Caller, c models.NewConsultation) (*models.Consultation, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}

	sql, args, err := r.insertQuery(caller.UserID, c).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create consultation query: %w", err)
	}

	row, err := scanConsultation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("userID", caller.UserID).Msg("Error executing create consultation query")
		return nil, dberrors.Classify(err, "create consultation")
	}
	return row, nil
}

// SetConsultationComplete updates is_complete when the row exists and belongs
// to caller, returning the affected row count.
func (r *ConsultationRepository) SetConsultationComplete(ctx context.Context, caller *models.Caller, id string, complete bool) (int64, error) {
	if caller == nil {
		return 0, apperrors.ErrUnauthorized
	}

	sql, args, err := r.completeQuery(caller.UserID, id, complete).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update consultation query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", caller.UserID).Str("consultationID", id).Msg("Error executing update consultation query")
		return 0, dberrors.Classify(err, "update consultation")
	}
	return tag.RowsAffected(), nil
}

// ListConsultations returns the caller's consultations, earliest first
func (r *ConsultationRepository) ListConsultations(ctx context.Context, caller *models.Caller) ([]models.Consultation, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}

	sql, args, err := r.listQuery(caller.UserID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list consultations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberrors.Classify(err, "list consultations")
	}
	defer rows.Close()

	list := []models.Consultation{}
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, dberrors.Classify(err, "scan consultation")
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Classify(err, "list consultations")
	}
	return list, nil
}

func scanConsultation(row pgx.Row) (*models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Reason,
		&c.Datetime, &c.IsComplete, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Datetime = c.Datetime.UTC()
	return &c, nil
}

func joinColumns() string {
	return strings.Join(consultationColumns, ", ")
}
