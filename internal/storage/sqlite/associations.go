package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/scicat/catalog/internal/types"
)

const assocColumns = `parent_scope, parent_name, child_scope, child_name, did_type, child_type,
	bytes, adler32, md5, guid, events, rule_evaluation, created_at`

func scanAssociation(scan func(dest ...any) error) (*types.Association, error) {
	var a types.Association
	var bytes_, events_ sql.NullInt64
	var didType, childType string
	err := scan(
		&a.ParentScope, &a.ParentName, &a.ChildScope, &a.ChildName, &didType, &childType,
		&bytes_, &a.Adler32, &a.MD5, &a.GUID, &events_, &a.RuleEvaluation, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.DIDType = types.DIDType(didType)
	a.ChildType = types.DIDType(childType)
	if bytes_.Valid {
		v := bytes_.Int64
		a.Bytes = &v
	}
	if events_.Valid {
		v := events_.Int64
		a.Events = &v
	}
	return &a, nil
}

func (t *tx) GetAssociation(ctx context.Context, parent, child types.DIDKey) (*types.Association, error) {
	row := t.sqlTx.QueryRowContext(ctx,
		`SELECT `+assocColumns+` FROM associations WHERE parent_scope = ? AND parent_name = ? AND child_scope = ? AND child_name = ?`,
		parent.Scope, parent.Name, child.Scope, child.Name)
	a, err := scanAssociation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrDidNotFound
		}
		return nil, wrapDBError("get_association", err)
	}
	return a, nil
}

func (t *tx) ListChildren(ctx context.Context, parent types.DIDKey) ([]types.Association, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT `+assocColumns+` FROM associations WHERE parent_scope = ? AND parent_name = ?`,
		parent.Scope, parent.Name)
	if err != nil {
		return nil, wrapDBError("list_children", err)
	}
	defer rows.Close()
	var out []types.Association
	for rows.Next() {
		a, err := scanAssociation(rows.Scan)
		if err != nil {
			return nil, wrapDBError("list_children", err)
		}
		out = append(out, *a)
	}
	return out, wrapDBError("list_children", rows.Err())
}

func (t *tx) ListParents(ctx context.Context, child types.DIDKey) ([]types.Association, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT `+assocColumns+` FROM associations WHERE child_scope = ? AND child_name = ?`,
		child.Scope, child.Name)
	if err != nil {
		return nil, wrapDBError("list_parents", err)
	}
	defer rows.Close()
	var out []types.Association
	for rows.Next() {
		a, err := scanAssociation(rows.Scan)
		if err != nil {
			return nil, wrapDBError("list_parents", err)
		}
		out = append(out, *a)
	}
	return out, wrapDBError("list_parents", rows.Err())
}

func (t *tx) InsertAssociation(ctx context.Context, a types.Association) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO associations (`+assocColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ParentScope, a.ParentName, a.ChildScope, a.ChildName, string(a.DIDType), string(a.ChildType),
		nullInt64(a.Bytes), a.Adler32, a.MD5, a.GUID, nullInt64(a.Events), a.RuleEvaluation, a.CreatedAt,
	)
	return wrapDBErrorf("insert_association", a.ParentScope, a.ParentName, err)
}

func (t *tx) BulkInsertAssociations(ctx context.Context, as []types.Association) error {
	for _, a := range as {
		if err := t.InsertAssociation(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) DeleteAssociation(ctx context.Context, parent, child types.DIDKey) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`DELETE FROM associations WHERE parent_scope = ? AND parent_name = ? AND child_scope = ? AND child_name = ?`,
		parent.Scope, parent.Name, child.Scope, child.Name)
	return wrapDBError("delete_association", err)
}

// DeleteAssociationsFromParents removes every outgoing edge of the given
// parents, used by Delete Phase B/C to sever a container's children
// before the container row itself is archived.
func (t *tx) DeleteAssociationsFromParents(ctx context.Context, parents []types.DIDKey) (int, error) {
	if len(parents) == 0 {
		return 0, nil
	}
	var b strings.Builder
	args := make([]any, 0, len(parents)*2)
	for i, p := range parents {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("(parent_scope = ? AND parent_name = ?)")
		args = append(args, p.Scope, p.Name)
	}
	res, err := t.sqlTx.ExecContext(ctx, `DELETE FROM associations WHERE `+b.String(), args...)
	if err != nil {
		return 0, wrapDBError("delete_associations_from_parents", err)
	}
	n, err := res.RowsAffected()
	return int(n), wrapDBError("delete_associations_from_parents", err)
}
