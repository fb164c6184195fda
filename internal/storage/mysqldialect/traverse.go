package mysqldialect

import (
	"context"

	"github.com/scicat/catalog/internal/types"
)

// ChildDIDs mirrors the sqlite backend's recursive descent (§4.8); MySQL
// 8.0+ and Dolt both support WITH RECURSIVE with the same syntax.
func (t *tx) ChildDIDs(ctx context.Context, input []types.DIDKey, targetType types.DIDType) ([]types.DIDKey, error) {
	if len(input) == 0 {
		return nil, nil
	}
	where, args := keyInClause(input)

	query := `
	WITH RECURSIVE descend AS (
		SELECT child_scope AS scope, child_name AS name, child_type AS did_type
		FROM associations
		WHERE (` + where + `)
		  AND (did_type = 'CONTAINER' OR (did_type = 'DATASET' AND ? = 'FILE'))
		UNION
		SELECT a.child_scope, a.child_name, a.child_type
		FROM associations a
		JOIN descend d ON a.parent_scope = d.scope AND a.parent_name = d.name
		WHERE (a.did_type = 'CONTAINER' OR (a.did_type = 'DATASET' AND ? = 'FILE'))
	)
	SELECT DISTINCT scope, name FROM descend WHERE did_type = ?`

	args = append(args, string(targetType), string(targetType), string(targetType))
	rows, err := t.sqlTx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("child_dids", err)
	}
	defer rows.Close()

	var out []types.DIDKey
	for rows.Next() {
		var k types.DIDKey
		if err := rows.Scan(&k.Scope, &k.Name); err != nil {
			return nil, wrapDBError("child_dids", err)
		}
		out = append(out, k)
	}
	return out, wrapDBError("child_dids", rows.Err())
}

func (t *tx) Ancestors(ctx context.Context, of types.DIDKey) ([]types.DIDKey, error) {
	rows, err := t.sqlTx.QueryContext(ctx, `
	WITH RECURSIVE up AS (
		SELECT parent_scope AS scope, parent_name AS name
		FROM associations
		WHERE child_scope = ? AND child_name = ? AND did_type = 'CONTAINER'
		UNION
		SELECT a.parent_scope, a.parent_name
		FROM associations a
		JOIN up u ON a.child_scope = u.scope AND a.child_name = u.name
		WHERE a.did_type = 'CONTAINER'
	)
	SELECT DISTINCT scope, name FROM up`, of.Scope, of.Name)
	if err != nil {
		return nil, wrapDBError("ancestors", err)
	}
	defer rows.Close()

	var out []types.DIDKey
	for rows.Next() {
		var k types.DIDKey
		if err := rows.Scan(&k.Scope, &k.Name); err != nil {
			return nil, wrapDBError("ancestors", err)
		}
		out = append(out, k)
	}
	return out, wrapDBError("ancestors", rows.Err())
}
