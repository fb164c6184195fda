package mysqldialect

import "database/sql"

// tx implements storage.Transaction over a single *sql.Tx. db is the
// pool the transaction was opened from; every statement, temp-table DDL
// included (§4.2), runs through sqlTx.
type tx struct {
	sqlTx *sql.Tx
	db    *sql.DB
}

func (t *tx) Commit() error   { return wrapDBError("commit", t.sqlTx.Commit()) }
func (t *tx) Rollback() error { return wrapDBError("rollback", t.sqlTx.Rollback()) }
