// Package collab defines the contracts for the systems this catalog
// treats as external collaborators: replica placement, metadata
// plugins, messaging transport, identity, rule evaluation, and
// configuration. The catalog engine depends only on these interfaces —
// it never implements rule evaluation, replica transfer, or auth.
package collab

import (
	"context"

	"github.com/scicat/catalog/internal/types"
)

// ReplicaEngine registers replicas for files at a storage element. The
// catalog calls this in the same transaction as an Association insert
// when an attachment carries an rse_id (§4.3.2).
type ReplicaEngine interface {
	RegisterReplicas(ctx context.Context, rseID string, files []types.DIDKey) error
}

// MetadataPlugin is the pluggable key/value store layer invoked by
// set_metadata/get_metadata/delete_metadata and by the Delete Engine's
// Phase C bulk metadata removal.
type MetadataPlugin interface {
	Set(ctx context.Context, scope, name, key, value string) error
	SetBulk(ctx context.Context, scope, name string, kv map[string]string) error
	Get(ctx context.Context, scope, name string) (map[string]string, error)
	Delete(ctx context.Context, scope, name, key string) error
	// DeleteBulk removes all metadata for the given DIDs. Implementations
	// that cannot support a set-based delete should return
	// types.ErrUndefinedPolicy, which the Delete Engine swallows (§7).
	DeleteBulk(ctx context.Context, dids []types.DIDKey) error
}

// Message is a fire-and-forget event payload (§6 "Events emitted").
type Message struct {
	EventType string
	Payload   map[string]any
}

// MessageSink is the messaging transport. Emit must behave
// transactionally with respect to the caller's database transaction:
// either the publish is visible after commit, or it never happened.
type MessageSink interface {
	Emit(ctx context.Context, msg Message) error
}

// TransactionalMessageSink is a MessageSink that buffers Emit calls made
// under a context it issued and only makes them externally visible on
// Flush, so a caller can tie publish to its own commit/rollback outcome.
// Sinks that publish immediately (no buffering needed) need not
// implement it.
type TransactionalMessageSink interface {
	MessageSink
	// NewOutboxContext returns a context Emit calls should buffer
	// against instead of publishing immediately.
	NewOutboxContext(ctx context.Context) context.Context
	Flush(ctx context.Context) error
	Discard(ctx context.Context)
}

// AccountDirectory answers identity questions the catalog needs but
// does not own.
type AccountDirectory interface {
	Exists(ctx context.Context, account string) (bool, error)
	HasVO(ctx context.Context, account, vo string) (bool, error)
	Email(ctx context.Context, account string) (string, error)
}

// RuleLockCounts summarizes a replication rule's lock states, used by
// the Delete Engine's Phase A threshold check.
type RuleLockCounts struct {
	OK          int
	Replicating int
	Stuck       int
}

// RuleEngine is the external rule evaluator and lock manager (Judge).
// The catalog only ever asks it to act on rules keyed to DIDs it is
// mutating; it never evaluates rules itself.
type RuleEngine interface {
	FindRulesForDIDs(ctx context.Context, dids []types.DIDKey) ([]Rule, error)
	LockCounts(ctx context.Context, ruleID string) (RuleLockCounts, error)
	SoftExpireRule(ctx context.Context, ruleID string) error
	DeleteRule(ctx context.Context, ruleID string, deleteParent, nowait bool) error
	GenerateNotifications(ctx context.Context, ruleID string) error
}

// Rule is the minimal shape of a replication rule the catalog needs to
// reason about during deletion; the rule's own fields (RSE expression,
// copies, grouping, …) are opaque to this spec.
type Rule struct {
	ID            string
	DID           types.DIDKey
	Locked        bool
	PurgeReplicas *bool
}

// Config is the narrow configuration surface the engine reads.
// Configuration loading itself (files, env, flags) is out of scope;
// callers inject an implementation.
type Config interface {
	GetBool(key string, def bool) bool
	GetInt(key string, def int) int
	GetStringSlice(key string) []string
}
