// Package dialect defines the database abstraction used to check generated
// tables against a live database.
//
// # Supported Dialects
//
//   - SQLite: "sqlite3" (aliases "sqlite")
//   - MySQL: "mysql" (alias "mariadb")
//   - PostgreSQL: "postgres" (aliases "postgresql", "pgx")
//
// Normalize maps an alias to its dialect name:
//
//	name, err := dialect.Normalize("sqlite") // "sqlite3"
//
// # Driver Interface
//
// A Driver executes statements and starts transactions:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface adds Commit and Rollback to the ExecQuerier methods.
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver, statistics and debug wrappers
//   - dialect/sql/schema: table conversion, DDL planning, verification and snapshots
package dialect
