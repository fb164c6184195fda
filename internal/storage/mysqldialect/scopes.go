package mysqldialect

import (
	"context"
	"database/sql"
	"errors"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) ScopeExists(ctx context.Context, scope string) (bool, error) {
	var name string
	err := t.sqlTx.QueryRowContext(ctx, `SELECT name FROM scopes WHERE name = ?`, scope).Scan(&name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, wrapDBError("scope_exists", err)
}

func (t *tx) InsertScope(ctx context.Context, s types.Scope) error {
	_, err := t.sqlTx.ExecContext(ctx, `INSERT INTO scopes (name, account, vo) VALUES (?, ?, ?)`, s.Name, s.Account, s.VO)
	return wrapDBErrorf("insert_scope", s.Name, "", err)
}
