package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/scicat/catalog/internal/digest"
	"github.com/scicat/catalog/internal/idgen"
	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// AddDIDsToFollowed implements add_dids_to_followed (§4.9): register
// account as a subscriber of each DID.
func (c *Catalog) AddDIDsToFollowed(ctx context.Context, tx storage.Transaction, keys []types.DIDKey, account string) error {
	for _, k := range keys {
		d, err := tx.GetDID(ctx, k.Scope, k.Name)
		if err != nil {
			return err
		}
		if err := tx.InsertFollow(ctx, types.Follow{Scope: k.Scope, Name: k.Name, Account: account, Type: d.Type}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDIDsFromFollowed implements remove_dids_from_followed (§4.9).
func (c *Catalog) RemoveDIDsFromFollowed(ctx context.Context, tx storage.Transaction, keys []types.DIDKey, account string) error {
	for _, k := range keys {
		if err := tx.DeleteFollow(ctx, k.Scope, k.Name, account); err != nil {
			return err
		}
	}
	return nil
}

// TriggerEvent implements trigger_event (§4.9): append a FollowEvent for
// every current follower of the DID.
func (c *Catalog) TriggerEvent(ctx context.Context, tx storage.Transaction, key types.DIDKey, didType types.DIDType, eventType, payload string) error {
	followers, err := tx.ListFollowers(ctx, key.Scope, key.Name)
	if err != nil {
		return err
	}
	for _, f := range followers {
		if err := tx.InsertFollowEvent(ctx, types.FollowEvent{
			ID: uuid.NewString(), Scope: key.Scope, Name: key.Name, Account: f.Account,
			Type: didType, EventType: eventType, Payload: payload, CreatedAt: now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

// CreateReports implements create_reports(total_workers, worker_number)
// (§4.9): shards pending follow events by hashed account, composes one
// digest per account, emits it, and only then drains that account's
// events — batched after the successful Emit rather than deleted
// per-iteration, so a mid-loop failure cannot lose an event whose
// digest was never delivered.
func (c *Catalog) CreateReports(ctx context.Context, tx storage.Transaction, accounts []string, totalWorkers, workerNumber int) error {
	for _, account := range accounts {
		if idgen.ShardIndex(account, totalWorkers) != workerNumber {
			continue
		}
		events, err := tx.ListFollowEventsForAccount(ctx, account)
		if err != nil || len(events) == 0 {
			if err != nil {
				return err
			}
			continue
		}

		body, err := digest.Compose(events)
		if err != nil {
			return err
		}
		email := ""
		if c.Accounts != nil {
			email, err = c.Accounts.Email(ctx, account)
			if err != nil {
				return err
			}
		}
		if err := c.emit(ctx, "email", map[string]any{
			"to": email, "subject": digest.Subject(len(events)), "body": body,
		}); err != nil {
			return err
		}

		ids := make([]string, len(events))
		for i, e := range events {
			ids[i] = e.ID
		}
		if err := tx.DeleteFollowEvents(ctx, ids); err != nil {
			return err
		}
	}
	return nil
}
