// Package sqlerr turns SQLite driver errors into ledger error kinds.
package sqlerr

import (
	"database/sql"
	"errors"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
)

// Classify wraps err with the ledger kind matching its SQLite result code.
// Errors that are already classified pass through unchanged.
func Classify(op string, err error) error {
	if err == nil || ledgererr.Classified(err) {
		return err
	}

	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return ledgererr.Storage(op, err)
	}

	switch code := sqliteErr.Code(); {
	case code&0xff == sqlite3.SQLITE_BUSY, code&0xff == sqlite3.SQLITE_LOCKED:
		return ledgererr.Conflict(op, err)
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		return ledgererr.Constraint(op, err)
	}
	return ledgererr.Storage(op, err)
}

// IsUnique reports whether err is a UNIQUE or PRIMARY KEY violation.
func IsUnique(err error) bool {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// IsForeignKey reports whether err is a FOREIGN KEY violation.
func IsForeignKey(err error) bool {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// IsNoRows reports whether a single-row lookup found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
