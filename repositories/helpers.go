package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// affectedExactlyOne reports whether the statement touched exactly one row.
func affectedExactlyOne(result sql.Result) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected == 1, nil
}

// pqErrorCode returns the SQLSTATE and constraint of a postgres error, if err is one.
func pqErrorCode(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", "", false
	}
	return string(pqErr.Code), pqErr.Constraint, true
}

func isUniqueViolation(err error) (string, bool) {
	code, constraint, ok := pqErrorCode(err)
	return constraint, ok && code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) (string, bool) {
	code, constraint, ok := pqErrorCode(err)
	return constraint, ok && code == pgerrcode.ForeignKeyViolation
}
