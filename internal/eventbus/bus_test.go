package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/scicat/catalog/internal/collab"
)

// startTestNATS starts an embedded NATS server with JetStream for
// testing and returns a connected JetStream context plus a cleanup
// function.
func startTestNATS(t *testing.T) (nats.JetStreamContext, func()) {
	t.Helper()
	dir := t.TempDir()
	opts := &natsserver.Options{
		Port:               -1,
		JetStream:          true,
		JetStreamMaxMemory:  256 << 20,
		JetStreamMaxStore:   256 << 20,
		StoreDir:           dir,
		NoLog:              true,
		NoSigs:             true,
	}
	ns, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("create test NATS server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("test NATS server failed to start")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		t.Fatalf("connect to test NATS: %v", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("get JetStream context: %v", err)
	}

	if err := EnsureStreams(js); err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("create streams: %v", err)
	}

	return js, func() {
		nc.Drain()
		nc.Close()
		ns.Shutdown()
	}
}

func subscribeAll(t *testing.T, js nats.JetStreamContext) *nats.Subscription {
	t.Helper()
	sub, err := js.SubscribeSync(SubjectPrefix+">", nats.DeliverAll())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	return sub
}

func TestEmitWithoutOutboxPublishesImmediately(t *testing.T) {
	js, cleanup := startTestNATS(t)
	defer cleanup()

	bus := New(js)
	sub := subscribeAll(t, js)

	msg := newMessage("CREATE_DTS", map[string]any{"scope": "s", "name": "dataset1"})
	if err := bus.Emit(context.Background(), msg); err != nil {
		t.Fatalf("emit: %v", err)
	}

	got, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("expected a published message, got error: %v", err)
	}
	if got.Subject != SubjectPrefix+"CREATE_DTS" {
		t.Errorf("unexpected subject: %s", got.Subject)
	}
}

func TestEmitWithOutboxBuffersUntilFlush(t *testing.T) {
	js, cleanup := startTestNATS(t)
	defer cleanup()

	bus := New(js)
	sub := subscribeAll(t, js)

	ctx := bus.NewOutboxContext(context.Background())
	if err := bus.Emit(ctx, newMessage("CLOSE", map[string]any{"name": "dataset1"})); err != nil {
		t.Fatalf("emit: %v", err)
	}

	if _, err := sub.NextMsg(200 * time.Millisecond); err == nil {
		t.Fatal("expected no message before Flush")
	}

	if err := bus.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("expected a published message after flush, got error: %v", err)
	}
	if got.Subject != SubjectPrefix+"CLOSE" {
		t.Errorf("unexpected subject: %s", got.Subject)
	}
}

func TestDiscardDropsBufferedMessagesWithoutPublishing(t *testing.T) {
	js, cleanup := startTestNATS(t)
	defer cleanup()

	bus := New(js)
	sub := subscribeAll(t, js)

	ctx := bus.NewOutboxContext(context.Background())
	if err := bus.Emit(ctx, newMessage("DETACH", map[string]any{"name": "dataset1"})); err != nil {
		t.Fatalf("emit: %v", err)
	}
	bus.Discard(ctx)

	if err := bus.Flush(ctx); err != nil {
		t.Fatalf("flush after discard: %v", err)
	}
	if _, err := sub.NextMsg(200 * time.Millisecond); err == nil {
		t.Fatal("expected no message after Discard")
	}
}

func TestFlushPreservesEmissionOrder(t *testing.T) {
	js, cleanup := startTestNATS(t)
	defer cleanup()

	bus := New(js)
	sub, err := js.SubscribeSync(SubjectPrefix+"OPEN", nats.DeliverAll())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	ctx := bus.NewOutboxContext(context.Background())
	for i := 0; i < 3; i++ {
		if err := bus.Emit(ctx, newMessage("OPEN", map[string]any{"seq": i})); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}
	if err := bus.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	for i := 0; i < 3; i++ {
		m, err := sub.NextMsg(2 * time.Second)
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		var payload struct {
			Seq int `json:"seq"`
		}
		if err := json.Unmarshal(m.Data, &payload); err != nil {
			t.Fatalf("unmarshal message %d: %v", i, err)
		}
		if payload.Seq != i {
			t.Errorf("message %d: expected seq %d, got %d", i, i, payload.Seq)
		}
	}
}

func newMessage(eventType string, payload map[string]any) collab.Message {
	return collab.Message{EventType: eventType, Payload: payload}
}
