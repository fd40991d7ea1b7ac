package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/SKR35/FCC-Synthetic-TM/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()
	ctx := context.Background()
	d, err := database.DialectFor("sqlite")
	require.NoError(t, err)
	db, err := database.Open(ctx, d, filepath.Join(t.TempDir(), "store.sqlite"), database.OpenOptions{CreateIfMissing: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.Apply(ctx, db, d))
	return db, d
}

func customer(id string, internal bool) model.Customer {
	return model.Customer{
		CustomerID:   id,
		IsInternal:   internal,
		CustomerType: model.CustomerPerson,
		FullName:     "Cust " + id,
		Country:      "PL",
		RiskRating:   model.RiskLow,
		CreatedAt:    "2025-01-01T00:00:00Z",
		Status:       model.CustomerActive,
	}
}

func TestInsertAndReload(t *testing.T) {
	ctx := context.Background()
	db, d := setup(t)
	s := New(db, d, WithBatchSize(2))

	require.NoError(t, s.InsertCustomers(ctx, []model.Customer{
		customer("c3", true), customer("c1", true), customer("x1", false), customer("c2", true), customer("x0", false),
	}))

	internal, external, err := s.LoadParties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, internal)
	assert.Equal(t, []string{"x0", "x1"}, external)

	require.NoError(t, s.InsertAccounts(ctx, []model.Account{
		{AccountID: "a2", CustomerID: "c1", ProductType: model.ProductSavings, Masked: "***a2", Currency: "EUR", OpenDate: "2024-05-03", Status: model.AccountOpen},
		{AccountID: "a1", CustomerID: "c2", ProductType: model.ProductChecking, Masked: "***a1", Currency: "PLN", OpenDate: "2024-01-09", Status: model.AccountOpen},
	}))

	refs, err := s.LoadAccountRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.AccountRef{
		{AccountID: "a1", CustomerID: "c2", Currency: "PLN"},
		{AccountID: "a2", CustomerID: "c1", Currency: "EUR"},
	}, refs)

	require.NoError(t, s.InsertTransactions(ctx, []model.CashTransaction{
		{
			TxID: "t1", Timestamp: "2025-01-02T10:00:00Z", AccountID: "a1", CustomerID: "c2",
			CounterpartyID: model.Ptr("x0"), Channel: model.ChannelCard, Direction: model.DirectionOut,
			AmountMinor: 1250, Currency: "PLN", Country: model.Ptr("PL"),
			MCCCode: model.Ptr("5411"), MerchantName: model.Ptr("Zabka"), Description: "CARD OUT abc123",
		},
	}))

	require.NoError(t, s.InsertAlerts(ctx, []model.Alert{
		{
			AlertID: "al1", CreatedAt: "2025-01-03T00:00:00Z", EntityType: model.EntityTransaction,
			EntityID: "t1", RuleID: "R_HIGH_AMOUNT", Score: 1.25, Label: model.Ptr(true),
			Typology: model.Ptr("STRUCTURING"), Outcome: model.Ptr(model.OutcomeOpen),
		},
	}))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		schema.TableCustomers: 5, schema.TableAccounts: 2, schema.TableTransactions: 1, schema.TableAlerts: 1,
	}, counts)

	rows, err := s.TableData(ctx, schema.Transactions)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zabka", rows[0]["merchant_name"])
	assert.Nil(t, rows[0]["terminal_id"])
	assert.EqualValues(t, 1250, rows[0]["amount_minor"])

	alerts, err := s.TableData(ctx, schema.Alerts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, alerts[0]["label"])
	assert.Equal(t, "OPEN", alerts[0]["outcome"])
	assert.Nil(t, alerts[0]["closed_ts_utc"])
}

func TestInsertDuplicateIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	db, d := setup(t)
	s := New(db, d)

	require.NoError(t, s.InsertCustomers(ctx, []model.Customer{customer("c1", true)}))
	err := s.InsertCustomers(ctx, []model.Customer{customer("c1", true)})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrConstraintViolation))
}

func TestInsertAccountForUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	db, d := setup(t)

	err := New(db, d).InsertAccounts(ctx, []model.Account{
		{AccountID: "a1", CustomerID: "ghost", ProductType: model.ProductPrepaid, Currency: "USD", OpenDate: "2024-01-01", Status: model.AccountOpen},
	})
	assert.True(t, apperr.HasCode(err, apperr.ErrConstraintViolation))
}

func TestEmptyBatchesAreNoops(t *testing.T) {
	ctx := context.Background()
	db, d := setup(t)
	s := New(db, d)

	assert.NoError(t, s.InsertCustomers(ctx, nil))
	assert.NoError(t, s.InsertTransactions(ctx, nil))
	assert.NoError(t, s.InsertAlerts(ctx, nil))
}

func TestBatchLargerThanBindLimit(t *testing.T) {
	ctx := context.Background()
	db, d := setup(t)
	s := New(db, d, WithBatchSize(5000))

	require.NoError(t, s.InsertCustomers(ctx, []model.Customer{customer("c1", true)}))
	require.NoError(t, s.InsertAccounts(ctx, []model.Account{
		{AccountID: "a1", CustomerID: "c1", ProductType: model.ProductChecking, Currency: "PLN", OpenDate: "2024-01-01", Status: model.AccountOpen},
	}))

	// 2500 rows x 16 columns is past SQLite's 32766 variables per statement
	txs := make([]model.CashTransaction, 2500)
	for i := range txs {
		txs[i] = model.CashTransaction{
			TxID: fmt.Sprintf("t%05d", i), Timestamp: "2025-01-02T10:00:00Z", AccountID: "a1", CustomerID: "c1",
			Channel: model.ChannelCash, Direction: model.DirectionIn, AmountMinor: int64(i + 1), Currency: "PLN",
			BranchID: model.Ptr("BR100"), Description: "CASH IN 000000",
		}
	}
	require.NoError(t, s.InsertTransactions(ctx, txs))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2500, counts[schema.TableTransactions])
}
