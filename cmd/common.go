package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SKR35/FCC-Synthetic-TM/internal/config"
	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	"github.com/SKR35/FCC-Synthetic-TM/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// target is an opened store plus what to call it in user output.
type target struct {
	db      *sql.DB
	dialect database.Dialect
	// label is the SQLite path, or the provider name for server databases so
	// that credentials in the DSN never reach the terminal.
	label string
}

func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "SQLite file path, or DSN for postgres/mysql (default from config)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db") {
		db, _ := cmd.Flags().GetString("db")
		cfg.Database.Path = db
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// openTarget connects to the configured store. For SQLite, create controls
// whether a missing file and its directories are created.
func openTarget(ctx context.Context, cmd *cobra.Command, cfg *config.Config, create bool) (*target, error) {
	d, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	var url string
	if !d.IsSQLite() && cmd.Flags().Changed("db") {
		// --db doubles as the DSN for server providers
		url = cfg.Database.Path
	} else if url, err = cfg.GetDatabaseURL(); err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, d, url, database.OpenOptions{CreateIfMissing: create})
	if err != nil {
		return nil, err
	}

	label := d.Provider
	if d.IsSQLite() {
		label = database.SQLitePath(url)
	}
	return &target{db: db, dialect: d, label: label}, nil
}
