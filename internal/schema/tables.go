package schema

const (
	TableCustomers    = "customers"
	TableAccounts     = "accounts"
	TableTransactions = "cash_transactions"
	TableAlerts       = "alerts"
)

var (
	Customers = &Table{
		Name:       TableCustomers,
		PrimaryKey: "customer_id",
		Columns: []string{
			"customer_id", "is_internal", "customer_type", "full_name", "country_iso2",
			"risk_rating", "pep_flag", "created_at_utc", "status",
		},
	}

	Accounts = &Table{
		Name:       TableAccounts,
		PrimaryKey: "account_id",
		Columns: []string{
			"account_id", "customer_id", "product_type", "iban_or_masked", "currency_iso3",
			"open_date", "close_date", "status",
		},
		Dependencies: []string{TableCustomers},
	}

	Transactions = &Table{
		Name:       TableTransactions,
		PrimaryKey: "tx_id",
		Columns: []string{
			"tx_id", "ts_utc", "account_id", "customer_id", "counterparty_customer_id",
			"channel", "direction", "amount_minor", "currency_iso3", "country_iso2",
			"mcc_code", "merchant_name", "terminal_id", "branch_id", "auth_code", "description",
		},
		Dependencies: []string{TableAccounts, TableCustomers},
	}

	// Alerts reference their entity by id only, so no dependency.
	Alerts = &Table{
		Name:       TableAlerts,
		PrimaryKey: "alert_id",
		Columns: []string{
			"alert_id", "created_ts_utc", "entity_type", "entity_id", "rule_id",
			"score", "label", "typology", "outcome", "closed_ts_utc",
		},
	}
)

// Tables returns the four entity tables in declaration order.
func Tables() []*Table {
	return []*Table{Customers, Accounts, Transactions, Alerts}
}

// Lookup returns the table with the given name, or nil.
func Lookup(name string) *Table {
	for _, t := range Tables() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// InsertionOrder orders the tables parents first.
func InsertionOrder() ([]string, error) {
	g := NewDependencyGraph()
	for _, t := range Tables() {
		g.AddTable(t)
	}
	return g.BuildInsertionOrder()
}
