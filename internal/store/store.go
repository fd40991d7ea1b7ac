package store

import (
	"context"
	"fmt"

	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/SKR35/FCC-Synthetic-TM/internal/schema"
)

const DefaultBatchSize = 100

// Store appends entity batches and reads keys back. It works on whatever
// Querier it is given; the pipeline hands it the run's transaction.
type Store struct {
	q         database.Querier
	dialect   database.Dialect
	batchSize int
}

type Option func(*Store)

// WithBatchSize sets how many rows go into one INSERT statement.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func New(q database.Querier, d database.Dialect, opts ...Option) *Store {
	s := &Store{q: q, dialect: d, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) InsertCustomers(ctx context.Context, rows []model.Customer) error {
	values := make([][]interface{}, len(rows))
	for i, c := range rows {
		values[i] = []interface{}{
			c.CustomerID, model.BoolInt(c.IsInternal), string(c.CustomerType), c.FullName, c.Country,
			string(c.RiskRating), model.BoolInt(c.PEPFlag), c.CreatedAt, string(c.Status),
		}
	}
	return s.insertBatch(ctx, schema.Customers, values)
}

func (s *Store) InsertAccounts(ctx context.Context, rows []model.Account) error {
	values := make([][]interface{}, len(rows))
	for i, a := range rows {
		values[i] = []interface{}{
			a.AccountID, a.CustomerID, string(a.ProductType), a.Masked, a.Currency,
			a.OpenDate, nullString(a.CloseDate), string(a.Status),
		}
	}
	return s.insertBatch(ctx, schema.Accounts, values)
}

func (s *Store) InsertTransactions(ctx context.Context, rows []model.CashTransaction) error {
	values := make([][]interface{}, len(rows))
	for i, t := range rows {
		values[i] = []interface{}{
			t.TxID, t.Timestamp, t.AccountID, t.CustomerID, nullString(t.CounterpartyID),
			string(t.Channel), string(t.Direction), t.AmountMinor, t.Currency, nullString(t.Country),
			nullString(t.MCCCode), nullString(t.MerchantName), nullString(t.TerminalID), nullString(t.BranchID),
			nullString(t.AuthCode), t.Description,
		}
	}
	return s.insertBatch(ctx, schema.Transactions, values)
}

func (s *Store) InsertAlerts(ctx context.Context, rows []model.Alert) error {
	values := make([][]interface{}, len(rows))
	for i, a := range rows {
		var label, outcome interface{}
		if a.Label != nil {
			label = model.BoolInt(*a.Label)
		}
		if a.Outcome != nil {
			outcome = string(*a.Outcome)
		}
		values[i] = []interface{}{
			a.AlertID, a.CreatedAt, string(a.EntityType), a.EntityID, a.RuleID,
			a.Score, label, nullString(a.Typology), outcome, nullString(a.ClosedAt),
		}
	}
	return s.insertBatch(ctx, schema.Alerts, values)
}

// insertBatch writes rows with one multi-row INSERT per batch. Batches are
// shrunk to fit the dialect's bind variable limit.
func (s *Store) insertBatch(ctx context.Context, table *schema.Table, rows [][]interface{}) error {
	size := s.dialect.RowsPerStatement(s.batchSize, len(table.Columns))
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}

		qb := s.dialect.Builder().Insert(table.Name).Columns(table.Columns...)
		for _, row := range rows[start:end] {
			qb = qb.Values(row...)
		}

		query, args, err := qb.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", table.Name, err)
		}
		if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
			return database.ClassifyError(fmt.Sprintf("failed to insert into %s (rows %d-%d)", table.Name, start+1, end), err)
		}
	}
	return nil
}

// LoadParties returns every customer id split by is_internal, ordered by id.
func (s *Store) LoadParties(ctx context.Context) (internal, external []string, err error) {
	query, args, err := s.dialect.Builder().
		Select("customer_id", "is_internal").
		From(schema.TableCustomers).
		OrderBy("customer_id").
		ToSql()
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var isInternal int
		if err := rows.Scan(&id, &isInternal); err != nil {
			return nil, nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		if isInternal == 1 {
			internal = append(internal, id)
		} else {
			external = append(external, id)
		}
	}
	return internal, external, rows.Err()
}

// LoadAccountRefs returns every account with its owner and currency, ordered
// by account id.
func (s *Store) LoadAccountRefs(ctx context.Context) ([]model.AccountRef, error) {
	query, args, err := s.dialect.Builder().
		Select("account_id", "customer_id", "currency_iso3").
		From(schema.TableAccounts).
		OrderBy("account_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	var refs []model.AccountRef
	for rows.Next() {
		var ref model.AccountRef
		if err := rows.Scan(&ref.AccountID, &ref.CustomerID, &ref.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Counts returns the row count of every entity table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(schema.Tables()))
	for _, table := range schema.Tables() {
		query, args, err := s.dialect.Builder().Select("COUNT(*)").From(table.Name).ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := s.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table.Name, err)
		}
		counts[table.Name] = n
	}
	return counts, nil
}

// TableData returns every row of table as column→value maps, in primary key
// order. Byte slices are turned into strings.
func (s *Store) TableData(ctx context.Context, table *schema.Table) ([]map[string]interface{}, error) {
	query, args, err := s.dialect.Builder().
		Select(table.Columns...).
		From(table.Name).
		OrderBy(table.PrimaryKey).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table.Name, err)
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(table.Columns))
		ptrs := make([]interface{}, len(table.Columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table.Name, err)
		}

		row := make(map[string]interface{}, len(table.Columns))
		for i, col := range table.Columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func nullString(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
