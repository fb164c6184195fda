package mysqldialect

import (
	"context"
	"strings"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) InsertFollowEvent(ctx context.Context, e types.FollowEvent) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO follow_events (id, scope, name, account, did_type, event_type, payload, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.Scope, e.Name, e.Account, string(e.Type), e.EventType, e.Payload, e.CreatedAt)
	return wrapDBErrorf("insert_follow_event", e.Scope, e.Name, err)
}

func (t *tx) ListFollowEventsForAccount(ctx context.Context, account string) ([]types.FollowEvent, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT id, scope, name, account, did_type, event_type, payload, created_at
		 FROM follow_events WHERE account = ? ORDER BY created_at ASC`, account)
	if err != nil {
		return nil, wrapDBError("list_follow_events_for_account", err)
	}
	defer rows.Close()

	var out []types.FollowEvent
	for rows.Next() {
		var e types.FollowEvent
		var didType string
		if err := rows.Scan(&e.ID, &e.Scope, &e.Name, &e.Account, &didType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, wrapDBError("list_follow_events_for_account", err)
		}
		e.Type = types.DIDType(didType)
		out = append(out, e)
	}
	return out, wrapDBError("list_follow_events_for_account", rows.Err())
}

func (t *tx) DeleteFollowEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := t.sqlTx.ExecContext(ctx, `DELETE FROM follow_events WHERE id IN (`+placeholders+`)`, args...)
	return wrapDBError("delete_follow_events", err)
}
