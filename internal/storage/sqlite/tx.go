package sqlite

import "database/sql"

// tx implements storage.Transaction over a single *sql.Tx. tempSeq is a
// pointer so every TempTableManager call sees the same counter within
// one transaction, giving the "distinct tables per call" guarantee
// (§4.2) without needing a slice field to track prior allocations.
type tx struct {
	sqlTx   *sql.Tx
	tempSeq *int
}

func (t *tx) Commit() error   { return wrapDBError("commit", t.sqlTx.Commit()) }
func (t *tx) Rollback() error { return wrapDBError("rollback", t.sqlTx.Rollback()) }
