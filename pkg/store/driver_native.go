//go:build !cgo_sqlite

package store

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database using the pure Go driver. Build with the
// cgo_sqlite tag to use mattn/go-sqlite3 instead.
func OpenSQLite(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", dataSource)
}
