package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		provider string
		driver   string
		ph       squirrel.PlaceholderFormat
	}{
		{"", "sqlite3", squirrel.Question},
		{"sqlite3", "sqlite3", squirrel.Question},
		{"postgresql", "pgx", squirrel.Dollar},
		{"mysql", "mysql", squirrel.Question},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := DialectFor(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, d.Driver)
			assert.Equal(t, tt.ph, d.Placeholder)
		})
	}

	_, err := DialectFor("oracle")
	assert.True(t, apperr.HasCode(err, apperr.ErrInvalidArgument))
}

func TestTableExistsQueryPlaceholders(t *testing.T) {
	pg, _ := DialectFor("postgres")
	query, args, err := pg.TableExistsQuery("customers")
	require.NoError(t, err)
	assert.Contains(t, query, "$1")
	assert.Equal(t, []interface{}{"customers"}, args)

	lite, _ := DialectFor("sqlite")
	query, args, err = lite.TableExistsQuery("customers")
	require.NoError(t, err)
	assert.Contains(t, query, "sqlite_master")
	assert.Len(t, args, 2)
}

func TestParseSQLStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE a (x TEXT DEFAULT 'a;b');
CREATE INDEX ix ON a(x);

INSERT INTO a VALUES ('it''s; fine')`

	stmts := ParseSQLStatements(script)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x TEXT DEFAULT 'a;b')", stmts[0])
	assert.Equal(t, "CREATE INDEX ix ON a(x)", stmts[1])
	assert.Equal(t, "INSERT INTO a VALUES ('it''s; fine')", stmts[2])
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "data/x.sqlite", SQLitePath("sqlite://data/x.sqlite?cache=shared"))
	assert.Equal(t, "x.db", SQLitePath("x.db"))
}

func TestOpenSQLiteMissingFile(t *testing.T) {
	d, _ := DialectFor("sqlite")
	path := filepath.Join(t.TempDir(), "missing", "db.sqlite")

	_, err := Open(context.Background(), d, path, OpenOptions{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrInvalidPath))
}

func TestConstraintClassificationSQLite(t *testing.T) {
	ctx := context.Background()
	d, _ := DialectFor("sqlite")
	path := filepath.Join(t.TempDir(), "nested", "db.sqlite")

	db, err := Open(ctx, d, path, OpenOptions{CreateIfMissing: true})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE parent (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE child (id TEXT PRIMARY KEY, parent_id TEXT NOT NULL REFERENCES parent(id))`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO parent (id) VALUES ('p1')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO parent (id) VALUES ('p1')`)
	assert.True(t, IsConstraintError(err), "duplicate key")

	// foreign keys are on for connections opened through Open
	_, err = db.ExecContext(ctx, `INSERT INTO child (id, parent_id) VALUES ('c1', 'nope')`)
	assert.True(t, IsConstraintError(err), "dangling foreign key")

	wrapped := ClassifyError("insert child", err)
	assert.True(t, apperr.HasCode(wrapped, apperr.ErrConstraintViolation))

	plain := fmt.Errorf("network down")
	other := ClassifyError("failed to insert into customers (rows 1-100)", plain)
	assert.EqualError(t, other, "failed to insert into customers (rows 1-100): network down")
	assert.ErrorIs(t, other, plain)
	assert.False(t, apperr.HasCode(other, apperr.ErrConstraintViolation))
	assert.Nil(t, ClassifyError("x", nil))
}

func TestRowsPerStatement(t *testing.T) {
	sqlite, err := DialectFor("sqlite")
	require.NoError(t, err)
	pg, err := DialectFor("postgres")
	require.NoError(t, err)

	assert.Equal(t, 100, sqlite.RowsPerStatement(100, 16))
	assert.Equal(t, 2047, sqlite.RowsPerStatement(5000, 16))
	assert.Equal(t, 4095, pg.RowsPerStatement(5000, 16))
	assert.Equal(t, 1, sqlite.RowsPerStatement(0, 16))
	assert.Equal(t, 7, Dialect{}.RowsPerStatement(7, 16), "no limit known")
}
