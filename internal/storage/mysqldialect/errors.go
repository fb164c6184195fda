package mysqldialect

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// MySQL server error numbers this backend classifies by code rather
// than by matching driver error strings (REDESIGN FLAG: string-matching
// driver errors is fragile across server versions).
const (
	errDupEntry          = 1062
	errLockWaitTimeout   = 1205
	errDeadlock          = 1213
	errForeignKeyFailure = 1452
)

// isSerializationConflict reports whether err is a transient
// lock/deadlock error that RunInTransaction should retry with backoff.
func isSerializationConflict(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == errLockWaitTimeout || merr.Number == errDeadlock
	}
	return false
}

// classify checks MySQL-typed error codes first, then falls back to the
// dialect-agnostic sentinel pass-through shared with sqlite.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		switch merr.Number {
		case errDupEntry:
			return types.ErrDidAlreadyExists
		case errForeignKeyFailure:
			return types.ErrUnsupportedOperation
		}
	}
	return storage.Classify(err)
}

func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, classify(err))
}

func wrapDBErrorf(op, scope, name string, err error) error {
	if err == nil {
		return nil
	}
	return types.NewCatalogError(op, scope, name, classify(err))
}
