package database

import (
	"errors"
	"fmt"
	"strings"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// MySQL server error numbers for integrity failures.
var mysqlConstraintErrors = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1216: true, // cannot add child row
	1217: true, // cannot delete parent row
	1451: true, // cannot delete or update parent row
	1452: true, // cannot add or update child row
	3819: true, // check constraint violated
}

// IsConstraintError reports whether err is a uniqueness, foreign key, NOT
// NULL or CHECK failure raised by any supported driver.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConstraintErrors[myErr.Number]
	}

	return false
}

// ClassifyError wraps driver constraint failures as ConstraintViolation and
// every other error with message as context.
func ClassifyError(message string, err error) error {
	if err == nil {
		return nil
	}
	if IsConstraintError(err) {
		return apperr.ConstraintViolation(message, err)
	}
	return fmt.Errorf("%s: %w", message, err)
}
