package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// OpenOptions controls how Open treats a missing SQLite file.
type OpenOptions struct {
	// CreateIfMissing creates parent directories and the database file.
	// Without it a missing SQLite file is an error.
	CreateIfMissing bool
}

// Open connects to url with the dialect's driver and pings it. For SQLite
// url is a file path (an optional sqlite:// prefix is stripped) and foreign
// keys are switched on for every connection.
func Open(ctx context.Context, d Dialect, url string, opts OpenOptions) (*sql.DB, error) {
	dsn := url
	if d.IsSQLite() {
		path := SQLitePath(url)
		if err := prepareSQLiteFile(path, opts.CreateIfMissing); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(url)
	}

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", d.Provider, err)
	}

	if d.IsSQLite() {
		// one writer; the whole run shares a single transaction anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if d.IsSQLite() {
			return nil, apperr.InvalidPath(SQLitePath(url), err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// SQLitePath strips the scheme and query string from a SQLite url.
func SQLitePath(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	return path
}

func sqliteDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite://")
	params := "_foreign_keys=on&_busy_timeout=5000"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

func prepareSQLiteFile(path string, create bool) error {
	if path == "" {
		return apperr.InvalidPath(path, fmt.Errorf("empty path"))
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return apperr.InvalidPath(path, err)
	}

	if !create {
		return apperr.InvalidPath(path, fmt.Errorf("database file does not exist (run init-db first): %w", os.ErrNotExist))
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperr.InvalidPath(path, err)
		}
	}
	return nil
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
