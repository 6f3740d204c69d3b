package runlog

import (
	"fmt"
	"strings"
)

// Dialect covers what the ledger needs to differ between SQLite and PostgreSQL.
type Dialect interface {
	DriverName() string

	// Placeholder renders bind parameter n, counting from 1.
	Placeholder(n int) string

	// Returning is appended to an INSERT to read back the new id. SQLite
	// returns "" and the ledger uses LastInsertId instead.
	Returning(column string) string

	// InitStatements run once right after connecting.
	InitStatements() []string

	// PrimaryKey is the column definition of an auto-incrementing id.
	PrimaryKey() string
}

// DialectType names a supported backend.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Unknown types fall back to SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Returning(string) string { return "" }
func (sqliteDialect) PrimaryKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }
func (sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) Returning(column string) string { return " RETURNING " + column }
func (postgresDialect) PrimaryKey() string { return "BIGSERIAL PRIMARY KEY" }
func (postgresDialect) InitStatements() []string { return nil }

// rebind rewrites the ? parameters of query into d's placeholders. Ledger
// queries never contain a literal question mark.
func rebind(d Dialect, query string) string {
	parts := strings.Split(query, "?")
	if len(parts) == 1 {
		return query
	}

	var b strings.Builder
	b.WriteString(parts[0])
	for i, part := range parts[1:] {
		b.WriteString(d.Placeholder(i + 1))
		b.WriteString(part)
	}
	return b.String()
}
