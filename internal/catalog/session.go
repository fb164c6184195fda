package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/collab"
	"github.com/scicat/catalog/internal/storage"
)

// RunInTransaction runs fn inside one storage transaction and, if
// Messages implements collab.TransactionalMessageSink, ties outbox
// delivery to the outcome: buffered events flush only after fn returns
// nil and the transaction commits, and are discarded on any failure
// (§5 "All side-effects ... commit atomically with the data change").
func (c *Catalog) RunInTransaction(ctx context.Context, gw storage.Gateway, fn func(ctx context.Context, tx storage.Transaction) error) error {
	sink, buffered := c.Messages.(collab.TransactionalMessageSink)
	if buffered {
		ctx = sink.NewOutboxContext(ctx)
	}

	err := gw.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return fn(ctx, tx)
	})

	if !buffered {
		return err
	}
	if err != nil {
		sink.Discard(ctx)
		return err
	}
	return sink.Flush(ctx)
}
