package database

import (
	"github.com/Masterminds/squirrel"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
)

const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"
)

// SupportedProviders lists every accepted provider spelling.
var SupportedProviders = []string{"sqlite", "sqlite3", "postgres", "postgresql", "mysql"}

// Bind variable ceilings per statement: SQLITE_MAX_VARIABLE_NUMBER of the
// bundled SQLite, and the 16-bit parameter count of the Postgres and MySQL
// wire protocols.
const (
	sqliteMaxBindVars   = 32766
	postgresMaxBindVars = 65535
	mysqlMaxBindVars    = 65535
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	Provider    string
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	// MaxBindVars is the most placeholders one statement may carry.
	MaxBindVars int
}

// RowsPerStatement caps a requested batch so that a multi-row INSERT of
// columns values per row stays within MaxBindVars. It never returns less
// than one.
func (d Dialect) RowsPerStatement(batchSize, columns int) int {
	rows := batchSize
	if d.MaxBindVars > 0 && columns > 0 {
		if limit := d.MaxBindVars / columns; rows > limit {
			rows = limit
		}
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Builder returns a squirrel statement builder using the dialect's
// placeholder format.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

func (d Dialect) IsSQLite() bool {
	return d.Provider == ProviderSQLite
}

// TableExistsQuery returns a query counting tables with the given name.
func (d Dialect) TableExistsQuery(table string) (string, []interface{}, error) {
	qb := d.Builder().Select("COUNT(*)")
	switch d.Provider {
	case ProviderSQLite:
		qb = qb.From("sqlite_master").Where(squirrel.Eq{"type": "table", "name": table})
	case ProviderPostgres:
		qb = qb.From("information_schema.tables").
			Where(squirrel.Eq{"table_name": table}).
			Where("table_schema = current_schema()")
	default:
		qb = qb.From("information_schema.tables").
			Where(squirrel.Eq{"table_name": table}).
			Where("table_schema = DATABASE()")
	}
	return qb.ToSql()
}

// DialectFor maps a provider name to its dialect.
func DialectFor(provider string) (Dialect, error) {
	switch provider {
	case "", "sqlite", "sqlite3":
		return Dialect{Provider: ProviderSQLite, Driver: "sqlite3", Placeholder: squirrel.Question, MaxBindVars: sqliteMaxBindVars}, nil
	case "postgresql", "postgres":
		return Dialect{Provider: ProviderPostgres, Driver: "pgx", Placeholder: squirrel.Dollar, MaxBindVars: postgresMaxBindVars}, nil
	case "mysql":
		return Dialect{Provider: ProviderMySQL, Driver: "mysql", Placeholder: squirrel.Question, MaxBindVars: mysqlMaxBindVars}, nil
	default:
		return Dialect{}, apperr.InvalidArgument("unsupported database provider: %s. Supported providers: %v",
			provider, SupportedProviders)
	}
}
