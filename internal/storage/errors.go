package storage

import (
	"database/sql"
	"errors"

	"github.com/scicat/catalog/internal/types"
)

// Classify maps an error onto one of the taxonomy sentinels without
// matching message substrings (REDESIGN FLAG: error classification via
// regex on driver strings is fragile and backend-specific):
// sql.ErrNoRows becomes ErrDidNotFound, an error that already wraps a
// sentinel yields that sentinel, and anything else becomes
// ErrDatabaseException. Dialect-specific classifiers (sqlite,
// mysqldialect) call this as a fallback after checking their own typed
// error codes.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrDidNotFound
	}
	for _, sentinel := range []error{
		types.ErrDidNotFound, types.ErrScopeNotFound, types.ErrAccountNotFound,
		types.ErrDidAlreadyExists, types.ErrFileAlreadyExists, types.ErrDuplicateContent,
		types.ErrUnsupportedOperation, types.ErrFileConsistencyMismatch, types.ErrUnsupportedStatus,
		types.ErrIdentityError, types.ErrUndefinedPolicy,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return types.ErrDatabaseException
}
