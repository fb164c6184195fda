package types

import "errors"

// Sentinel errors forming the taxonomy in the error-handling design:
// not-found, conflict, invariant-violation, policy, and infrastructure
// classes. Classification downstream uses errors.Is/errors.As, never
// string matching on driver messages.
var (
	// Not-found.
	ErrDidNotFound     = errors.New("did not found")
	ErrScopeNotFound   = errors.New("scope not found")
	ErrAccountNotFound = errors.New("account not found")

	// Conflict.
	ErrDidAlreadyExists  = errors.New("did already exists")
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrDuplicateContent  = errors.New("duplicate content")

	// Invariant violation.
	ErrUnsupportedOperation   = errors.New("unsupported operation")
	ErrFileConsistencyMismatch = errors.New("file consistency mismatch")
	ErrUnsupportedStatus      = errors.New("unsupported status")

	// Policy (soft — swallowed by the Delete Engine per §7).
	ErrIdentityError   = errors.New("identity error")
	ErrUndefinedPolicy = errors.New("undefined policy")

	// Infrastructure.
	ErrDatabaseException = errors.New("database exception")
)

// CatalogError wraps a sentinel with the (scope, name) keys and the
// operation that failed, per "failures raise a typed error carrying a
// human-readable message including the (scope, name) keys involved".
type CatalogError struct {
	Op    string
	Scope string
	Name  string
	Err   error
}

func (e *CatalogError) Error() string {
	if e.Name == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Scope + ":" + e.Name + ": " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error { return e.Err }

func NewCatalogError(op, scope, name string, err error) *CatalogError {
	return &CatalogError{Op: op, Scope: scope, Name: name, Err: err}
}
