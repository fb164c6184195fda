package sqlite

import (
	"context"
	"fmt"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// tempTableManager hands out scratch tables scoped to t's transaction.
// SQLite temp tables are connection-scoped, not transaction-scoped.
// Names carry a sequence number that restarts at 1 in every
// transaction, so later transactions reuse the same names; CREATE ... IF
// NOT EXISTS followed by DELETE hands every caller an empty table, and
// because store.Open caps the pool at one connection no two
// transactions run at once.
type tempTableManager struct{ t *tx }

func (t *tx) TempTables() storage.TempTableManager { return tempTableManager{t: t} }

func (m tempTableManager) nextName(prefix string) string {
	*m.t.tempSeq++
	return fmt.Sprintf("temp.%s_%d", prefix, *m.t.tempSeq)
}

func (m tempTableManager) NewKeyTable(ctx context.Context) (storage.KeyTable, error) {
	name := m.nextName("keys")
	_, err := m.t.sqlTx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS `+name+` (scope TEXT NOT NULL, name TEXT NOT NULL)`)
	if err != nil {
		return nil, wrapDBError("new_key_table", err)
	}
	if _, err := m.t.sqlTx.ExecContext(ctx, `DELETE FROM `+name); err != nil {
		return nil, wrapDBError("new_key_table", err)
	}
	return keyTable{t: m.t, name: name}, nil
}

func (m tempTableManager) NewEdgeTable(ctx context.Context) (storage.EdgeTable, error) {
	name := m.nextName("edges")
	_, err := m.t.sqlTx.ExecContext(ctx,
		`CREATE TEMP TABLE IF NOT EXISTS `+name+` (
			parent_scope TEXT NOT NULL, parent_name TEXT NOT NULL,
			child_scope TEXT NOT NULL, child_name TEXT NOT NULL)`)
	if err != nil {
		return nil, wrapDBError("new_edge_table", err)
	}
	if _, err := m.t.sqlTx.ExecContext(ctx, `DELETE FROM `+name); err != nil {
		return nil, wrapDBError("new_edge_table", err)
	}
	return edgeTable{t: m.t, name: name}, nil
}

type keyTable struct {
	t    *tx
	name string
}

func (k keyTable) Name() string { return k.name }

func (k keyTable) Insert(ctx context.Context, keys []types.DIDKey) error {
	for _, key := range keys {
		if _, err := k.t.sqlTx.ExecContext(ctx, `INSERT INTO `+k.name+` (scope, name) VALUES (?, ?)`, key.Scope, key.Name); err != nil {
			return wrapDBError("key_table_insert", err)
		}
	}
	return nil
}

func (k keyTable) Keys(ctx context.Context) ([]types.DIDKey, error) {
	rows, err := k.t.sqlTx.QueryContext(ctx, `SELECT scope, name FROM `+k.name)
	if err != nil {
		return nil, wrapDBError("key_table_keys", err)
	}
	defer rows.Close()

	var out []types.DIDKey
	for rows.Next() {
		var key types.DIDKey
		if err := rows.Scan(&key.Scope, &key.Name); err != nil {
			return nil, wrapDBError("key_table_keys", err)
		}
		out = append(out, key)
	}
	return out, wrapDBError("key_table_keys", rows.Err())
}

type edgeTable struct {
	t    *tx
	name string
}

func (e edgeTable) Name() string { return e.name }

func (e edgeTable) Insert(ctx context.Context, parents []types.DIDKey, children []types.DIDKey) error {
	n := len(parents)
	if len(children) < n {
		n = len(children)
	}
	for i := 0; i < n; i++ {
		_, err := e.t.sqlTx.ExecContext(ctx,
			`INSERT INTO `+e.name+` (parent_scope, parent_name, child_scope, child_name) VALUES (?,?,?,?)`,
			parents[i].Scope, parents[i].Name, children[i].Scope, children[i].Name)
		if err != nil {
			return wrapDBError("edge_table_insert", err)
		}
	}
	return nil
}
