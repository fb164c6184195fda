package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/scicat/catalog/internal/collab"
)

// Bus implements collab.TransactionalMessageSink. With an outbox on ctx
// (registered by NewOutboxContext), Emit does not talk to JetStream: it
// appends to that outbox, so the caller controls when (or whether) the
// batch becomes visible. Without an outbox on ctx, Emit publishes immediately
// — the behavior a caller outside a catalog transaction (e.g. a one-off
// admin script) wants.
type Bus struct {
	js  nats.JetStreamContext
	log *slog.Logger
}

// New constructs a Bus bound to an already-connected JetStream context.
func New(js nats.JetStreamContext) *Bus {
	return &Bus{js: js, log: slog.Default().With("component", "eventbus")}
}

var _ collab.TransactionalMessageSink = (*Bus)(nil)

type outboxKey struct{}

type outbox struct {
	mu   sync.Mutex
	msgs []collab.Message
}

// NewOutboxContext returns a context carrying a fresh outbox. Emit calls
// made with the returned context buffer instead of publishing; call
// Flush with the same context after the caller's database transaction
// commits successfully, or Discard if it rolled back.
func (b *Bus) NewOutboxContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, outboxKey{}, &outbox{})
}

func outboxFrom(ctx context.Context) *outbox {
	ob, _ := ctx.Value(outboxKey{}).(*outbox)
	return ob
}

// Emit implements collab.MessageSink.
func (b *Bus) Emit(ctx context.Context, msg collab.Message) error {
	if ob := outboxFrom(ctx); ob != nil {
		ob.mu.Lock()
		ob.msgs = append(ob.msgs, msg)
		ob.mu.Unlock()
		return nil
	}
	return b.publish(msg)
}

// Flush publishes every message buffered on ctx's outbox, in emission
// order, and clears it. Call this after the caller's transaction has
// committed.
func (b *Bus) Flush(ctx context.Context) error {
	ob := outboxFrom(ctx)
	if ob == nil {
		return nil
	}
	ob.mu.Lock()
	msgs := ob.msgs
	ob.msgs = nil
	ob.mu.Unlock()

	for _, msg := range msgs {
		if err := b.publish(msg); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops ctx's buffered outbox without publishing, for the
// caller's rollback path.
func (b *Bus) Discard(ctx context.Context) {
	if ob := outboxFrom(ctx); ob != nil {
		ob.mu.Lock()
		ob.msgs = nil
		ob.mu.Unlock()
	}
}

func (b *Bus) publish(msg collab.Message) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("eventbus: marshal %s payload: %w", msg.EventType, err)
	}
	subject := SubjectForEvent(EventType(msg.EventType))
	ack, err := b.js.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("eventbus: publish %s: %w", subject, err)
	}
	b.log.Debug("published event", "subject", subject, "stream", ack.Stream, "seq", ack.Sequence)
	return nil
}
