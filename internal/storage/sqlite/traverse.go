package sqlite

import (
	"context"

	"github.com/scicat/catalog/internal/types"
)

// ChildDIDs descends the Association DAG from input, following
// CONTAINER->* edges (and additionally DATASET->* edges when
// targetType=FILE), and returns the distinct set of descendants whose
// own type is exactly targetType (§4.8 child_dids / one_did_childs).
func (t *tx) ChildDIDs(ctx context.Context, input []types.DIDKey, targetType types.DIDType) ([]types.DIDKey, error) {
	if len(input) == 0 {
		return nil, nil
	}
	where, args := keyInClause(input)

	// descend walks every outgoing edge whose parent type is CONTAINER,
	// plus DATASET edges when the caller wants FILE descendants (a
	// dataset's only children are files).
	query := `
	WITH RECURSIVE descend(scope, name, did_type) AS (
		SELECT child_scope, child_name, child_type
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

// Ancestors returns the set of CONTAINER ancestors of a DID by walking
// parent edges upward, used by the container sub-routine's cycle check
// (§4.3.3): attaching child C under parent P is a cycle iff C appears in
// Ancestors(P).
func (t *tx) Ancestors(ctx context.Context, of types.DIDKey) ([]types.DIDKey, error) {
	rows, err := t.sqlTx.QueryContext(ctx, `
	WITH RECURSIVE up(scope, name) AS (
		SELECT parent_scope, parent_name
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
