package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"warden/internal/errors"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

const usersEmailConstraint = "users_email_key"

func pgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}

	return pgErr.Code, pgErr.ConstraintName, true
}

func isUniqueConstraintViolation(err error) bool {
	// GORM translates the driver error when TranslateError is enabled.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	code, _, ok := pgErrorCode(err)

	return ok && code == pgUniqueViolation
}

// isDuplicateEmail reports a unique violation on the email column.
// A violation without a constraint name is attributed to email, the only unique column besides the key.
func isDuplicateEmail(err error) bool {
	if !isUniqueConstraintViolation(err) {
		return false
	}

	_, constraint, ok := pgErrorCode(err)
	if !ok || constraint == "" {
		return true
	}

	return constraint == usersEmailConstraint
}

func isNotNullConstraintViolation(err error) bool {
	code, _, ok := pgErrorCode(err)

	return ok && code == pgNotNullViolation
}
