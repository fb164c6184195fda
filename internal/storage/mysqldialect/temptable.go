package mysqldialect

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// tempSeq is process-wide rather than per-transaction: MySQL TEMPORARY
// TABLEs are scoped to the underlying connection and survive a
// transaction rollback (global/session semantics, §4.2), so table names
// must stay unique across every transaction that might share a pooled
// connection, not just within one.
var tempSeq int64

type tempTableManager struct{ t *tx }

func (t *tx) TempTables() storage.TempTableManager { return tempTableManager{t: t} }

func (m tempTableManager) nextName(prefix string) string {
	n := atomic.AddInt64(&tempSeq, 1)
	return fmt.Sprintf("tmp_%s_%d", prefix, n)
}

func (m tempTableManager) NewKeyTable(ctx context.Context) (storage.KeyTable, error) {
	name := m.nextName("keys")
	_, err := m.t.sqlTx.ExecContext(ctx, `CREATE TEMPORARY TABLE IF NOT EXISTS `+name+` (scope VARCHAR(255) NOT NULL, name VARCHAR(767) NOT NULL)`)
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
		`CREATE TEMPORARY TABLE IF NOT EXISTS `+name+` (
			parent_scope VARCHAR(255) NOT NULL, parent_name VARCHAR(767) NOT NULL,
			child_scope VARCHAR(255) NOT NULL, child_name VARCHAR(767) NOT NULL)`)
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
