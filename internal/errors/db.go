package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FromDB classifies a database error into an AppError. The original error
// is preserved as the cause for logging; handlers only look at the code.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFoundf("%s not found", resource)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrapf(err, ErrCodeInternal, "%s query interrupted", resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return Wrapf(err, ErrCodeConflict, "%s already exists", resource)
		case pgerrcode.ForeignKeyViolation:
			return Wrapf(err, ErrCodeConflict, "%s references a missing row", resource)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return Wrapf(err, ErrCodeValidation, "%s violates a constraint", resource)
		}
	}

	return Wrapf(err, ErrCodeInternal, "%s query failed", resource)
}
