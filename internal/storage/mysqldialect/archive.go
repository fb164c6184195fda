package mysqldialect

import (
	"context"
	"database/sql"

	"github.com/scicat/catalog/internal/types"
)

const archiveColumns = `archive_scope, archive_name, file_scope, file_name, bytes, adler32, md5, guid, created_at`

func (t *tx) InsertArchiveConstituent(ctx context.Context, c types.ArchiveConstituent) error {
	_, err := t.sqlTx.ExecContext(ctx,
		`INSERT INTO archive_constituents (`+archiveColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		c.ArchiveScope, c.ArchiveName, c.FileScope, c.FileName, nullInt64(c.Bytes), c.Adler32, c.MD5, c.GUID, c.CreatedAt,
	)
	return wrapDBErrorf("insert_archive_constituent", c.ArchiveScope, c.ArchiveName, err)
}

func (t *tx) BulkInsertArchiveConstituents(ctx context.Context, cs []types.ArchiveConstituent) error {
	for _, c := range cs {
		if err := t.InsertArchiveConstituent(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) ListArchiveConstituents(ctx context.Context, archive types.DIDKey) ([]types.ArchiveConstituent, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT `+archiveColumns+` FROM archive_constituents WHERE archive_scope = ? AND archive_name = ?`,
		archive.Scope, archive.Name)
	if err != nil {
		return nil, wrapDBError("list_archive_constituents", err)
	}
	defer rows.Close()

	var out []types.ArchiveConstituent
	for rows.Next() {
		var c types.ArchiveConstituent
		var bytes_ sql.NullInt64
		if err := rows.Scan(&c.ArchiveScope, &c.ArchiveName, &c.FileScope, &c.FileName, &bytes_, &c.Adler32, &c.MD5, &c.GUID, &c.CreatedAt); err != nil {
			return nil, wrapDBError("list_archive_constituents", err)
		}
		if bytes_.Valid {
			v := bytes_.Int64
			c.Bytes = &v
		}
		out = append(out, c)
	}
	return out, wrapDBError("list_archive_constituents", rows.Err())
}
