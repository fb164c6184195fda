package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

const didColumns = `scope, name, did_type, account, is_open, monotonic, expired_at, created_at,
	closed_at, accessed_at, access_cnt, bytes, length, events, md5, adler32, guid,
	availability, is_archive, constituent, is_new, purge_replicas, hidden, obsolete,
	complete, suppressed, extra`

func scanDID(scan func(dest ...any) error) (*types.DID, error) {
	var d types.DID
	var expiredAt, closedAt, accessedAt sql.NullTime
	var bytes_, length_, events_ sql.NullInt64
	var purgeReplicas sql.NullBool
	var availability string
	var extra string

	err := scan(
		&d.Scope, &d.Name, &d.Type, &d.Account, &d.IsOpen, &d.Monotonic,
		&expiredAt, &d.CreatedAt, &closedAt, &accessedAt, &d.AccessCnt,
		&bytes_, &length_, &events_, &d.MD5, &d.Adler32, &d.GUID,
		&availability, &d.IsArchive, &d.Constituent, &d.IsNew, &purgeReplicas,
		&d.Hidden, &d.Obsolete, &d.Complete, &d.Suppressed, &extra,
	)
	if err != nil {
		return nil, err
	}
	if expiredAt.Valid {
		t := expiredAt.Time
		d.ExpiredAt = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		d.ClosedAt = &t
	}
	if accessedAt.Valid {
		t := accessedAt.Time
		d.AccessedAt = &t
	}
	if bytes_.Valid {
		v := bytes_.Int64
		d.Bytes = &v
	}
	if length_.Valid {
		v := length_.Int64
		d.Length = &v
	}
	if events_.Valid {
		v := events_.Int64
		d.Events = &v
	}
	if purgeReplicas.Valid {
		v := purgeReplicas.Bool
		d.PurgeReplicas = &v
	}
	d.Availability = types.Availability(availability)
	if extra != "" && extra != "{}" {
		_ = json.Unmarshal([]byte(extra), &d.Extra)
	}
	return &d, nil
}

func didValues(d types.DID) []any {
	extra := "{}"
	if len(d.Extra) > 0 {
		if b, err := json.Marshal(d.Extra); err == nil {
			extra = string(b)
		}
	}
	return []any{
		d.Scope, d.Name, string(d.Type), d.Account, d.IsOpen, d.Monotonic,
		nullTime(d.ExpiredAt), d.CreatedAt, nullTime(d.ClosedAt), nullTime(d.AccessedAt), d.AccessCnt,
		nullInt64(d.Bytes), nullInt64(d.Length), nullInt64(d.Events), d.MD5, d.Adler32, d.GUID,
		string(d.Availability), d.IsArchive, d.Constituent, d.IsNew, nullBool(d.PurgeReplicas),
		d.Hidden, d.Obsolete, d.Complete, d.Suppressed, extra,
	}
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullBool(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

func (t *tx) GetDID(ctx context.Context, scope, name string) (*types.DID, error) {
	row := t.sqlTx.QueryRowContext(ctx, `SELECT `+didColumns+` FROM dids WHERE scope = ? AND name = ?`, scope, name)
	d, err := scanDID(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapDBErrorf("get_did", scope, name, err)
		}
		return nil, wrapDBErrorf("get_did", scope, name, err)
	}
	return d, nil
}

// SelectForUpdate locks the parent DID row. SQLite has no row-level
// locking; a BEGIN IMMEDIATE-equivalent exclusive write lock on the
// whole database is the closest analogue, achieved here by virtue of
// the single-connection pool (store.go) serializing all writers, so a
// plain read inside the caller's transaction already has the same
// effect as "select ... for update".
func (t *tx) SelectForUpdate(ctx context.Context, scope, name string) (*types.DID, error) {
	return t.GetDID(ctx, scope, name)
}

func (t *tx) GetDIDs(ctx context.Context, keys []types.DIDKey) ([]types.DID, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	where, args := keyInClause(keys)
	rows, err := t.sqlTx.QueryContext(ctx, `SELECT `+didColumns+` FROM dids WHERE `+where, args...)
	if err != nil {
		return nil, wrapDBError("get_dids", err)
	}
	defer rows.Close()

	var out []types.DID
	for rows.Next() {
		d, err := scanDID(rows.Scan)
		if err != nil {
			return nil, wrapDBError("get_dids", err)
		}
		out = append(out, *d)
	}
	return out, wrapDBError("get_dids", rows.Err())
}

func (t *tx) InsertDID(ctx context.Context, d types.DID) error {
	placeholders := strings.TrimRight(strings.Repeat("?,", 27), ",")
	_, err := t.sqlTx.ExecContext(ctx, `INSERT INTO dids (`+didColumns+`) VALUES (`+placeholders+`)`, didValues(d)...)
	return wrapDBErrorf("insert_did", d.Scope, d.Name, err)
}

func (t *tx) BulkInsertDIDs(ctx context.Context, ds []types.DID) error {
	for _, d := range ds {
		if err := t.InsertDID(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) UpdateDIDWhere(ctx context.Context, keys []types.DIDKey, mutate func(*types.DID)) error {
	for _, k := range keys {
		d, err := t.GetDID(ctx, k.Scope, k.Name)
		if err != nil {
			return err
		}
		mutate(d)
		placeholders := strings.TrimRight(strings.Repeat("?,", 27), ",")
		_, err = t.sqlTx.ExecContext(ctx,
			`INSERT INTO dids (`+didColumns+`) VALUES (`+placeholders+`)
			 ON CONFLICT(scope, name) DO UPDATE SET
				did_type=excluded.did_type, account=excluded.account, is_open=excluded.is_open,
				monotonic=excluded.monotonic, expired_at=excluded.expired_at, closed_at=excluded.closed_at,
				accessed_at=excluded.accessed_at, access_cnt=excluded.access_cnt, bytes=excluded.bytes,
				length=excluded.length, events=excluded.events, md5=excluded.md5, adler32=excluded.adler32,
				guid=excluded.guid, availability=excluded.availability, is_archive=excluded.is_archive,
				constituent=excluded.constituent, is_new=excluded.is_new, purge_replicas=excluded.purge_replicas,
				hidden=excluded.hidden, obsolete=excluded.obsolete, complete=excluded.complete,
				suppressed=excluded.suppressed, extra=excluded.extra`,
			didValues(*d)...)
		if err != nil {
			return wrapDBErrorf("update_did", k.Scope, k.Name, err)
		}
	}
	return nil
}

func (t *tx) DeleteDIDs(ctx context.Context, keys []types.DIDKey) error {
	if len(keys) == 0 {
		return nil
	}
	where, args := keyInClause(keys)
	_, err := t.sqlTx.ExecContext(ctx, `DELETE FROM dids WHERE `+where, args...)
	return wrapDBError("delete_dids", err)
}

// keyInClause builds a "(scope = ? AND name = ?) OR ..." predicate for
// a bulk set of keys. SQLite lacks row-value IN support in older
// builds, so this is the portable form across both dialects.
func keyInClause(keys []types.DIDKey) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(keys)*2)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("(scope = ? AND name = ?)")
		args = append(args, k.Scope, k.Name)
	}
	return b.String(), args
}

var _ storage.Transaction = (*tx)(nil)
