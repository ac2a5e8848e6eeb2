package schema

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/autocolumn/dialect"
	"github.com/syssam/autocolumn/dialect/sql"
)

// ErrColumnMismatch is reported when a created table does not expose the
// columns of its record.
var ErrColumnMismatch = errors.New("schema: column mismatch")

// VerifyError is returned by Verify when the database rejects a statement
// or the created table reads back with other columns.
type VerifyError struct {
	Table     string
	Statement string
	Err       error
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	return fmt.Sprintf("schema: verify table %q: %v", e.Table, e.Err)
}

// Unwrap returns the database error.
func (e *VerifyError) Unwrap() error {
	return e.Err
}

// IsVerifyError returns a boolean indicating whether the error is a
// statement rejected by Verify.
func IsVerifyError(err error) bool {
	var e *VerifyError
	return errors.As(err, &e)
}

// Verify executes the CREATE TABLE statements of the tables inside a
// transaction of the driver, reads the columns of every created table back
// and rolls the transaction back. MySQL commits DDL implicitly, so verify
// MySQL schemas against a scratch database.
func Verify(ctx context.Context, drv dialect.Driver, tables []*Table) (err error) {
	stmts, err := Plan(ctx, drv.Dialect(), tables)
	if err != nil {
		return err
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("schema: begin transaction: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && err == nil {
			err = fmt.Errorf("schema: rollback: %w", rerr)
		}
	}()
	for _, s := range stmts {
		if err := tx.Exec(ctx, s.SQL, []any{}, nil); err != nil {
			return &VerifyError{Table: s.Table, Statement: s.SQL, Err: err}
		}
	}
	for _, t := range tables {
		if err := probe(ctx, tx, drv.Dialect(), t); err != nil {
			return &VerifyError{Table: t.Name, Err: err}
		}
	}
	return nil
}

func probe(ctx context.Context, tx dialect.Tx, name string, t *Table) error {
	rows := &sql.Rows{}
	if err := tx.Query(ctx, "SELECT * FROM "+quote(name, t.Name)+" WHERE 1 = 0", []any{}, rows); err != nil {
		return err
	}
	defer rows.Close()
	got, err := rows.Columns()
	if err != nil {
		return err
	}
	want := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		want[i] = c.Name
	}
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: got %v, want %v", ErrColumnMismatch, got, want)
	}
	return rows.Err()
}

func quote(name, ident string) string {
	if name == dialect.MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}
