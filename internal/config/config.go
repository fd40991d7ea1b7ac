package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/logger"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFile = "fcctm.config.json"
	EnvPrefix         = "FCCTM"
)

type Config struct {
	Database   Database `json:"database" mapstructure:"database"`
	Generate   Generate `json:"generate" mapstructure:"generate"`
	Log        Log      `json:"log" mapstructure:"log"`
	ExportPath string   `json:"export_path" mapstructure:"export_path"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	// Path is the SQLite file. Other providers read their DSN from URLEnv.
	Path   string `json:"path" mapstructure:"path"`
	URLEnv string `json:"url_env" mapstructure:"url_env"`
}

type Generate struct {
	Customers     int     `json:"n_customers" mapstructure:"n_customers"`
	Externals     int     `json:"n_externals" mapstructure:"n_externals"`
	Accounts      int     `json:"n_accounts" mapstructure:"n_accounts"`
	Transactions  int     `json:"n_transactions" mapstructure:"n_transactions"`
	Seed          int64   `json:"seed" mapstructure:"seed"`
	TopPercent    float64 `json:"top_percent" mapstructure:"top_percent"`
	TxWindowDays  int     `json:"tx_window_days" mapstructure:"tx_window_days"`
	OpenDateYears int     `json:"open_date_years" mapstructure:"open_date_years"`
	BatchSize     int     `json:"batch_size" mapstructure:"batch_size"`
	SeededIDs     bool    `json:"seeded_ids" mapstructure:"seeded_ids"`
}

type Log struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// SetDefaults registers every default with viper so that env overrides
// (FCCTM_GENERATE_SEED and friends) resolve even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.provider", database.ProviderSQLite)
	v.SetDefault("database.path", filepath.Join("data", "fcc_tm.sqlite"))
	v.SetDefault("database.url_env", "DATABASE_URL")
	v.SetDefault("generate.n_customers", 1000)
	v.SetDefault("generate.n_externals", 600)
	v.SetDefault("generate.n_accounts", 1500)
	v.SetDefault("generate.n_transactions", 20000)
	v.SetDefault("generate.seed", 42)
	v.SetDefault("generate.top_percent", 0.01)
	v.SetDefault("generate.tx_window_days", 90)
	v.SetDefault("generate.open_date_years", 2)
	v.SetDefault("generate.batch_size", 100)
	v.SetDefault("generate.seeded_ids", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("export_path", filepath.Join("data", "export"))
}

// Load unmarshals the global viper state.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := database.DialectFor(c.Database.Provider); err != nil {
		return err
	}

	g := c.Generate
	for name, n := range map[string]int{
		"n_customers":    g.Customers,
		"n_externals":    g.Externals,
		"n_accounts":     g.Accounts,
		"n_transactions": g.Transactions,
	} {
		if n < 0 {
			return apperr.InvalidArgument("%s cannot be negative, got %d", name, n)
		}
	}
	if g.TopPercent <= 0 || g.TopPercent > 1 {
		return apperr.InvalidArgument("top_percent must be in (0, 1], got %v", g.TopPercent)
	}
	if g.TxWindowDays <= 0 {
		return apperr.InvalidArgument("tx_window_days must be positive, got %d", g.TxWindowDays)
	}
	if g.OpenDateYears <= 0 {
		return apperr.InvalidArgument("open_date_years must be positive, got %d", g.OpenDateYears)
	}
	if g.BatchSize <= 0 {
		return apperr.InvalidArgument("batch_size must be positive, got %d", g.BatchSize)
	}

	if !logger.ValidLevel(c.Log.Level) {
		return apperr.InvalidArgument("unsupported log level: %s", c.Log.Level)
	}
	if !logger.ValidFormat(c.Log.Format) {
		return apperr.InvalidArgument("unsupported log format: %s", c.Log.Format)
	}

	if c.ExportPath == "" {
		return apperr.InvalidArgument("export_path cannot be empty")
	}
	return nil
}

// Dialect resolves the configured provider.
func (c *Config) Dialect() (database.Dialect, error) {
	return database.DialectFor(c.Database.Provider)
}

// GetDatabaseURL returns the SQLite path, or for server providers the DSN
// held in the environment variable named by url_env.
func (c *Config) GetDatabaseURL() (string, error) {
	d, err := c.Dialect()
	if err != nil {
		return "", err
	}
	if d.IsSQLite() {
		if c.Database.Path == "" {
			return "", apperr.InvalidArgument("database.path cannot be empty for sqlite")
		}
		return c.Database.Path, nil
	}

	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}
