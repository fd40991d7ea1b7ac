// Package schema owns the persisted tables: their DDL for every supported
// dialect, their dependency order, and the helpers that create, verify and
// clear them.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
)

//go:embed sql/*.sql
var ddlFiles embed.FS

// DDL returns the schema script for the dialect.
func DDL(d database.Dialect) (string, error) {
	data, err := ddlFiles.ReadFile("sql/" + d.Provider + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for provider %s: %w", d.Provider, err)
	}
	return string(data), nil
}

// Apply creates every table and index that does not exist yet. Running it
// again is a no-op.
func Apply(ctx context.Context, db *sql.DB, d database.Dialect) error {
	script, err := DDL(d)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range database.ParseSQLStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Verify returns a SchemaMissing error for the first table that does not
// exist.
func Verify(ctx context.Context, q database.Querier, d database.Dialect) error {
	order, err := InsertionOrder()
	if err != nil {
		return err
	}
	for _, name := range order {
		query, args, err := d.TableExistsQuery(name)
		if err != nil {
			return err
		}
		var n int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return fmt.Errorf("failed to check table %s: %w", name, err)
		}
		if n == 0 {
			return apperr.SchemaMissing(name)
		}
	}
	return nil
}

// Truncate deletes every row, children before parents, and returns the
// number of rows removed per table.
func Truncate(ctx context.Context, q database.Querier, d database.Dialect) (map[string]int64, error) {
	order, err := InsertionOrder()
	if err != nil {
		return nil, err
	}

	removed := make(map[string]int64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		query, args, err := d.Builder().Delete(name).ToSql()
		if err != nil {
			return nil, err
		}
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to truncate %s: %w", name, err)
		}
		n, _ := res.RowsAffected()
		removed[name] = n
	}
	return removed, nil
}
