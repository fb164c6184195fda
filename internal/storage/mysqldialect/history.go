package mysqldialect

import (
	"context"
	"database/sql"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) InsertAssociationHistory(ctx context.Context, h types.AssociationHistory) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO association_history
			(parent_scope, parent_name, child_scope, child_name, did_type, child_type, bytes, events, parent_created_at, deleted_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		h.ParentScope, h.ParentName, h.ChildScope, h.ChildName, string(h.DIDType), string(h.ChildType),
		nullInt64(h.Bytes), nullInt64(h.Events), h.ParentCreatedAt, h.DeletedAt,
	)
	return wrapDBErrorf("insert_association_history", h.ParentScope, h.ParentName, err)
}

// ListAssociationHistory reads back the detach log for a parent (§2.3
// supplement, list_content_history).
func (t *tx) ListAssociationHistory(ctx context.Context, parent types.DIDKey) ([]types.AssociationHistory, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT parent_scope, parent_name, child_scope, child_name, did_type, child_type, bytes, events, parent_created_at, deleted_at
		 FROM association_history WHERE parent_scope = ? AND parent_name = ? ORDER BY deleted_at DESC`,
		parent.Scope, parent.Name)
	if err != nil {
		return nil, wrapDBErrorf("list_association_history", parent.Scope, parent.Name, err)
	}
	defer rows.Close()

	var out []types.AssociationHistory
	for rows.Next() {
		var h types.AssociationHistory
		var bytes_, events_ sql.NullInt64
		if err := rows.Scan(&h.ParentScope, &h.ParentName, &h.ChildScope, &h.ChildName, &h.DIDType, &h.ChildType,
			&bytes_, &events_, &h.ParentCreatedAt, &h.DeletedAt); err != nil {
			return nil, wrapDBErrorf("list_association_history", parent.Scope, parent.Name, err)
		}
		if bytes_.Valid {
			v := bytes_.Int64
			h.Bytes = &v
		}
		if events_.Valid {
			v := events_.Int64
			h.Events = &v
		}
		out = append(out, h)
	}
	return out, wrapDBErrorf("list_association_history", parent.Scope, parent.Name, rows.Err())
}
