package sqlite

import (
	"errors"
	"fmt"

	"github.com/ncruces/go-sqlite3"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// isUniqueConstraint reports whether err is a SQLite UNIQUE/PRIMARY KEY
// constraint violation, checked via the driver's typed extended error
// code rather than matching against the error string (REDESIGN FLAG:
// error classification via regex on driver strings is fragile).
func isUniqueConstraint(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE ||
			sqliteErr.ExtendedCode() == sqlite3.CONSTRAINT_PRIMARYKEY
	}
	return false
}

// classify checks sqlite-typed constraint codes first, then falls back
// to the dialect-agnostic sentinel pass-through shared with
// mysqldialect.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraint(err) {
		return types.ErrDidAlreadyExists
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
