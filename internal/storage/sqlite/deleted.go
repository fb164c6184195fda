package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) InsertDeletedDID(ctx context.Context, dd types.DeletedDID) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO deleted_dids (scope, name, did_type, account, created_at, deleted_at, bytes, length, events)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		dd.Scope, dd.Name, string(dd.Type), dd.Account, dd.CreatedAt, dd.DeletedAt,
		nullInt64(dd.Bytes), nullInt64(dd.Length), nullInt64(dd.Events),
	)
	return wrapDBErrorf("insert_deleted_did", dd.Scope, dd.Name, err)
}

func (t *tx) GetDeletedDID(ctx context.Context, scope, name string) (*types.DeletedDID, error) {
	row := t.sqlTx.QueryRowContext(ctx,
		`SELECT scope, name, did_type, account, created_at, deleted_at, bytes, length, events
		 FROM deleted_dids WHERE scope = ? AND name = ?`, scope, name)

	var dd types.DeletedDID
	var didType string
	var bytes_, length_, events_ sql.NullInt64
	err := row.Scan(&dd.Scope, &dd.Name, &didType, &dd.Account, &dd.CreatedAt, &dd.DeletedAt, &bytes_, &length_, &events_)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapDBErrorf("get_deleted_did", scope, name, err)
		}
		return nil, wrapDBErrorf("get_deleted_did", scope, name, err)
	}
	dd.Type = types.DIDType(didType)
	if bytes_.Valid {
		v := bytes_.Int64
		dd.Bytes = &v
	}
	if length_.Valid {
		v := length_.Int64
		dd.Length = &v
	}
	if events_.Valid {
		v := events_.Int64
		dd.Events = &v
	}
	return &dd, nil
}

func (t *tx) DeleteDeletedDID(ctx context.Context, scope, name string) error {
	_, err := t.sqlTx.ExecContext(ctx, `DELETE FROM deleted_dids WHERE scope = ? AND name = ?`, scope, name)
	return wrapDBErrorf("delete_deleted_did", scope, name, err)
}
