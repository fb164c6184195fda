package mysqldialect

import (
	"context"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) InsertFollow(ctx context.Context, f types.Follow) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO follows (scope, name, account, did_type) VALUES (?,?,?,?)`,
		f.Scope, f.Name, f.Account, string(f.Type))
	return wrapDBErrorf("insert_follow", f.Scope, f.Name, err)
}

func (t *tx) DeleteFollow(ctx context.Context, scope, name, account string) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`DELETE FROM follows WHERE scope = ? AND name = ? AND account = ?`, scope, name, account)
	return wrapDBErrorf("delete_follow", scope, name, err)
}

func (t *tx) DeleteFollowsForDIDs(ctx context.Context, keys []types.DIDKey) error {
	if len(keys) == 0 {
		return nil
	}
	where, args := keyInClause(keys)
	_, err := t.sqlTx.ExecContext(ctx, `DELETE FROM follows WHERE `+where, args...)
	return wrapDBError("delete_follows_for_dids", err)
}

func (t *tx) ListFollowers(ctx context.Context, scope, name string) ([]types.Follow, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT scope, name, account, did_type FROM follows WHERE scope = ? AND name = ?`, scope, name)
	if err != nil {
		return nil, wrapDBError("list_followers", err)
	}
	defer rows.Close()

	var out []types.Follow
	for rows.Next() {
		var f types.Follow
		var didType string
		if err := rows.Scan(&f.Scope, &f.Name, &f.Account, &didType); err != nil {
			return nil, wrapDBError("list_followers", err)
		}
		f.Type = types.DIDType(didType)
		out = append(out, f)
	}
	return out, wrapDBError("list_followers", rows.Err())
}
