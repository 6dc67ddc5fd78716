package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// sqlState extracts the SQLSTATE from either driver in use: lib/pq for the
// API server, pgx for the command line tools.
func sqlState(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	code, _ := sqlState(err)
	return code == codeUniqueViolation
}

// translateWrite maps constraint failures raised by INSERT/UPDATE to domain
// errors and wraps everything else.
func translateWrite(err error, entity, action string) error {
	if err == nil {
		return nil
	}
	code, constraint := sqlState(err)
	switch code {
	case codeUniqueViolation:
		return domain.Conflict("%s already exists", entity)
	case codeForeignKeyViolation:
		return domain.NotFound("referenced record not found (%s)", constraint)
	case codeCheckViolation:
		return domain.Validation("%s violates constraint %s", entity, constraint)
	case codeNumericOutOfRange:
		return domain.Validation("%s has a numeric value out of range", entity)
	}
	return fmt.Errorf("failed to %s %s: %w", action, entity, err)
}

// translateDelete maps a foreign-key failure on DELETE to a conflict: the row
// is still referenced.
func translateDelete(err error, entity string) error {
	if err == nil {
		return nil
	}
	if code, _ := sqlState(err); code == codeForeignKeyViolation {
		return domain.Conflict("%s is still in use", entity)
	}
	return fmt.Errorf("failed to delete %s: %w", entity, err)
}

// noRows turns sql.ErrNoRows into a nil result.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
