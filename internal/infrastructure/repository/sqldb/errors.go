package sqldb

import (
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

const pqForeignKeyViolation = pq.ErrorCode("23503")

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// classify wraps err and marks a broken reference as a missing row.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return crerr.Mark(crerr.Wrap(err, msg), persistence.ErrNotFound)
	}
	return crerr.Wrap(err, msg)
}
