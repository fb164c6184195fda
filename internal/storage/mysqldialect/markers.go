package mysqldialect

import (
	"context"

	"github.com/scicat/catalog/internal/types"
)

func (t *tx) InsertUpdatedDIDMarker(ctx context.Context, m types.UpdatedDIDMarker) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO updated_dids (id, scope, name, action) VALUES (?,?,?,?)`,
		m.ID, m.Scope, m.Name, string(m.Action))
	return wrapDBErrorf("insert_updated_did_marker", m.Scope, m.Name, err)
}
