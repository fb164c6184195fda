// Package storage defines the Persistence Gateway contract: typed
// set-based access to catalog tables bounded by caller-supplied
// transactions, plus the per-transaction Temp-Table Manager used to
// pass bulk (scope,name) sets into set-based joins.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/scicat/catalog/internal/types"
)

// Dialect names a backend's SQL flavor and its temp-table/hash-pushdown
// capabilities (§4.1, §4.2, §4.7).
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// Capabilities describes what a dialect's planner and temp-table
// semantics support, so callers (Scan/Sharding, Temp-Table Manager) can
// choose a pushdown path or a client-side fallback.
type Capabilities struct {
	// HashPushdown is true when the backend can evaluate
	// MOD(hash(name), total_workers) = worker inside the query planner.
	HashPushdown bool
	// GlobalTempTables is true when temp tables persist across
	// transactions on this connection (server-side/global semantics,
	// e.g. Dolt/MySQL) rather than needing an explicit clear-on-acquire
	// (e.g. SQLite's connection-scoped temp tables).
	GlobalTempTables bool
}

// Gateway is the Persistence Gateway: it opens transactions and reports
// the backend's dialect capabilities. It owns no mutation methods of its
// own — all typed access happens through a Transaction.
type Gateway interface {
	Dialect() Dialect
	Capabilities() Capabilities

	// Begin starts a new transaction bound to the caller. Every public
	// mutating catalog operation executes inside exactly one such
	// transaction (§5 Transaction boundary).
	Begin(ctx context.Context) (Transaction, error)

	// RunInTransaction runs fn inside a transaction, committing on
	// success and rolling back on error. A panic in fn is not recovered,
	// so that path does not roll back here. On backends with
	// optimistic/serializable isolation, classified serialization
	// conflicts are retried with backoff (mysqldialect); sqlite runs fn
	// exactly once since SQLITE_BUSY is handled by driver-level busy
	// timeout instead.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	Close() error
}

// Transaction is the bounded, typed access surface the engine uses.
// Every method is scoped to this transaction; nothing here is visible
// outside it until commit.
type Transaction interface {
	// SelectForUpdate row-locks the DID at (scope,name) and returns it.
	// Returns types.ErrDidNotFound if absent.
	SelectForUpdate(ctx context.Context, scope, name string) (*types.DID, error)

	// ScopeExists reports whether a scope row exists. add_dids (§6)
	// requires every new DID to name an existing scope (ScopeNotFound).
	ScopeExists(ctx context.Context, scope string) (bool, error)
	InsertScope(ctx context.Context, s types.Scope) error

	GetDID(ctx context.Context, scope, name string) (*types.DID, error)
	GetDIDs(ctx context.Context, keys []types.DIDKey) ([]types.DID, error)
	InsertDID(ctx context.Context, d types.DID) error
	BulkInsertDIDs(ctx context.Context, ds []types.DID) error
	UpdateDIDWhere(ctx context.Context, keys []types.DIDKey, mutate func(*types.DID)) error
	DeleteDIDs(ctx context.Context, keys []types.DIDKey) error

	GetAssociation(ctx context.Context, parent, child types.DIDKey) (*types.Association, error)
	ListChildren(ctx context.Context, parent types.DIDKey) ([]types.Association, error)
	ListParents(ctx context.Context, child types.DIDKey) ([]types.Association, error)
	InsertAssociation(ctx context.Context, a types.Association) error
	BulkInsertAssociations(ctx context.Context, as []types.Association) error
	DeleteAssociation(ctx context.Context, parent, child types.DIDKey) error
	DeleteAssociationsFromParents(ctx context.Context, parents []types.DIDKey) (int, error)

	InsertArchiveConstituent(ctx context.Context, c types.ArchiveConstituent) error
	BulkInsertArchiveConstituents(ctx context.Context, cs []types.ArchiveConstituent) error
	ListArchiveConstituents(ctx context.Context, archive types.DIDKey) ([]types.ArchiveConstituent, error)

	InsertAssociationHistory(ctx context.Context, h types.AssociationHistory) error
	// ListAssociationHistory returns every history row ever recorded for
	// children detached from parent, newest deleted_at first.
	ListAssociationHistory(ctx context.Context, parent types.DIDKey) ([]types.AssociationHistory, error)

	InsertDeletedDID(ctx context.Context, dd types.DeletedDID) error
	GetDeletedDID(ctx context.Context, scope, name string) (*types.DeletedDID, error)
	DeleteDeletedDID(ctx context.Context, scope, name string) error

	InsertUpdatedDIDMarker(ctx context.Context, m types.UpdatedDIDMarker) error

	InsertFollow(ctx context.Context, f types.Follow) error
	DeleteFollow(ctx context.Context, scope, name, account string) error
	DeleteFollowsForDIDs(ctx context.Context, keys []types.DIDKey) error
	ListFollowers(ctx context.Context, scope, name string) ([]types.Follow, error)

	InsertFollowEvent(ctx context.Context, e types.FollowEvent) error
	ListFollowEventsForAccount(ctx context.Context, account string) ([]types.FollowEvent, error)
	DeleteFollowEvents(ctx context.Context, ids []string) error

	// ChildDIDs descends the Association DAG from input, following
	// CONTAINER->* edges (and DATASET->* when targetType=FILE), and
	// returns the distinct set of descendants of exactly targetType
	// (§4.8 child_dids / one_did_childs).
	ChildDIDs(ctx context.Context, input []types.DIDKey, targetType types.DIDType) ([]types.DIDKey, error)

	// Ancestors returns the set of CONTAINER ancestors of a DID, used by
	// the container sub-routine's cycle check (§4.3.3).
	Ancestors(ctx context.Context, of types.DIDKey) ([]types.DIDKey, error)

	// ListExpired streams candidate expired DIDs ordered by expired_at
	// ascending, filtered to those not covered by a locked rule.
	// A non-nil shard keeps only DIDs whose name hashes to shard.Worker;
	// backends with hash pushdown filter inside the query (§4.7), the
	// others filter client-side as rows are read.
	ListExpired(ctx context.Context, before time.Time, excludeLocked func(types.DIDKey) bool, limit int, shard *ShardPredicate) ([]types.DID, error)

	ListNew(ctx context.Context, didType types.DIDType, excludeInjecting func(types.DIDKey) bool, chunkSize int, shard *ShardPredicate) ([]types.DID, error)

	TempTables() TempTableManager

	Commit() error
	Rollback() error
}

// ShardPredicate names the worker partition a pushdown-capable backend
// should filter to; total/worker mirror hash(name) mod total == worker.
type ShardPredicate struct {
	Worker int
	Total  int
}

// TempTableManager is a per-transaction factory for scratch tables used
// to pass bulk (scope,name) or (scope,name,child_scope,child_name) sets
// into set-based joins (§4.2).
type TempTableManager interface {
	// NewKeyTable returns an empty scratch table of (scope,name) rows.
	// Successive calls within the same transaction return distinct
	// tables; every returned table is empty-on-entry.
	NewKeyTable(ctx context.Context) (KeyTable, error)
	// NewEdgeTable returns an empty scratch table of
	// (scope,name,child_scope,child_name) rows.
	NewEdgeTable(ctx context.Context) (EdgeTable, error)
}

// KeyTable holds a bulk set of DID keys for a single transaction.
type KeyTable interface {
	Name() string
	Insert(ctx context.Context, keys []types.DIDKey) error
	Keys(ctx context.Context) ([]types.DIDKey, error)
}

// EdgeTable holds a bulk set of parent/child key pairs.
type EdgeTable interface {
	Name() string
	Insert(ctx context.Context, edges []types.DIDKey, children []types.DIDKey) error
}

// IsNoRows reports whether err is sql.ErrNoRows, the one stdlib sentinel
// backends surface directly rather than through a driver-specific code.
func IsNoRows(err error) bool { return err == sql.ErrNoRows }
