// Package catalog is the DID graph engine: the Attach/Detach/Delete/Scan/
// Aggregation/Follow/Resurrect operations that maintain the catalog's
// relational invariants. Every entry point takes an explicit
// context.Context and storage.Transaction — there is no thread-local
// session (§9 "Global session state").
package catalog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scicat/catalog/internal/collab"
)

var tracer trace.Tracer = otel.Tracer("github.com/scicat/catalog/catalog")

var catalogMetrics struct {
	attachCount metric.Int64Counter
	detachCount metric.Int64Counter
	deleteCount metric.Int64Counter
}

func init() {
	m := otel.Meter("github.com/scicat/catalog/catalog")
	catalogMetrics.attachCount, _ = m.Int64Counter("catalog.attach.count",
		metric.WithDescription("attach_dids_to_dids invocations"))
	catalogMetrics.detachCount, _ = m.Int64Counter("catalog.detach.count",
		metric.WithDescription("detach_dids invocations"))
	catalogMetrics.deleteCount, _ = m.Int64Counter("catalog.delete.count",
		metric.WithDescription("delete_dids invocations"))
}

// Catalog wires the DID graph engine to its external collaborators. A
// Catalog has no mutable state of its own beyond its collaborators;
// every operation is bound to the storage.Transaction the caller
// passes in.
type Catalog struct {
	Replicas  collab.ReplicaEngine
	Metadata  collab.MetadataPlugin
	Messages  collab.MessageSink
	Accounts  collab.AccountDirectory
	Rules     collab.RuleEngine
	Config    collab.Config
	Log       *slog.Logger
}

// New constructs a Catalog. Collaborators are optional: operations that
// depend on one left nil degrade to a no-op for that collaborator's
// side effect (e.g. no rule engine means delete never soft-expires a
// rule, no message sink means events are dropped).
func New(replicas collab.ReplicaEngine, metadata collab.MetadataPlugin, messages collab.MessageSink,
	accounts collab.AccountDirectory, rules collab.RuleEngine, cfg collab.Config) *Catalog {
	return &Catalog{
		Replicas: replicas,
		Metadata: metadata,
		Messages: messages,
		Accounts: accounts,
		Rules:    rules,
		Config:   cfg,
		Log:      slog.Default().With("component", "catalog"),
	}
}

func (c *Catalog) emit(ctx context.Context, eventType string, payload map[string]any) error {
	if c.Messages == nil {
		return nil
	}
	return c.Messages.Emit(ctx, collab.Message{EventType: eventType, Payload: payload})
}
