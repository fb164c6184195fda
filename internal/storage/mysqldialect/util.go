package mysqldialect

import "strings"

// splitStatements breaks a ";"-delimited schema blob into individual
// statements; go-sql-driver/mysql does not support multi-statement
// Exec by default (multiStatements is off by design, to avoid stacked
// query injection via the driver).
func splitStatements(ddl string) []string {
	var out []string
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
