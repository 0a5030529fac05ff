package dberrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

// PostgreSQL error codes the repositories react to
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeInvalidText         = "22P02"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports a unique violation on any constraint
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}

// IsConnectionError reports failures to reach the server at all
func IsConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}

// Classify turns a driver error into the application error taxonomy,
// keeping the server's message for storage failures.
func Classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return apperrors.Unavailable(fmt.Errorf("%s: %w", op, err))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		class := apperrors.ErrStorage
		if pgErr.Code == CodeUniqueViolation {
			class = apperrors.ErrConflict
		}
		return apperrors.NewCustomError(class, pgErr.Message).
			WithCode(pgErr.Code).
			WithDetails(map[string]interface{}{"op": op, "constraint": pgErr.ConstraintName})
	}

	return apperrors.NewCustomError(apperrors.ErrStorage, "").
		WithDetails(map[string]interface{}{"op": op, "cause": err.Error()})
}
