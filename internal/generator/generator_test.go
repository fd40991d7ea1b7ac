package generator

import (
	"strings"
	"testing"
	"time"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/SKR35/FCC-Synthetic-TM/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func newGenerator(seed int64) *Generator {
	return New(sampler.New(seed, sampler.WithNow(fixedNow)), SeededIDs(seed))
}

func refsFor(accounts []model.Account) []model.AccountRef {
	refs := make([]model.AccountRef, len(accounts))
	for i, a := range accounts {
		refs[i] = model.AccountRef{AccountID: a.AccountID, CustomerID: a.CustomerID, Currency: a.Currency}
	}
	return refs
}

func splitParties(customers []model.Customer) (internal, external []string) {
	for _, c := range customers {
		if c.IsInternal {
			internal = append(internal, c.CustomerID)
		} else {
			external = append(external, c.CustomerID)
		}
	}
	return internal, external
}

func TestCustomers(t *testing.T) {
	g := newGenerator(1)

	rows, err := g.Customers(40, 25)
	require.NoError(t, err)
	require.Len(t, rows, 65)

	ids := map[string]bool{}
	for i, c := range rows {
		assert.False(t, ids[c.CustomerID], "duplicate id %s", c.CustomerID)
		ids[c.CustomerID] = true

		assert.Equal(t, i < 40, c.IsInternal)
		assert.Equal(t, model.CustomerActive, c.Status)
		assert.Len(t, c.Country, 2)
		assert.Contains(t, sampler.RiskLevels, c.RiskRating)
		assert.Equal(t, fixedNow.Format(model.TimeLayout), c.CreatedAt)
		if c.IsInternal {
			assert.True(t, strings.HasPrefix(c.FullName, "Cust "))
		} else {
			assert.True(t, strings.HasPrefix(c.FullName, "Ext "))
			assert.False(t, c.PEPFlag, "external customers are never PEP")
		}
	}
}

func TestCustomersRejectNegativeCounts(t *testing.T) {
	_, err := newGenerator(1).Customers(-1, 0)
	assert.True(t, apperr.HasCode(err, apperr.ErrInvalidArgument))
}

func TestAccountsOwnedByInternalCustomers(t *testing.T) {
	g := newGenerator(2)
	customers, err := g.Customers(10, 5)
	require.NoError(t, err)
	internal, _ := splitParties(customers)

	accounts, err := g.Accounts(internal, 50)
	require.NoError(t, err)
	require.Len(t, accounts, 50)

	for _, a := range accounts {
		assert.Contains(t, internal, a.CustomerID)
		assert.Contains(t, products, a.ProductType)
		assert.Contains(t, sampler.Currencies, a.Currency)
		assert.Equal(t, "***"+a.AccountID[:6], a.Masked)
		assert.Nil(t, a.CloseDate)
		assert.Equal(t, model.AccountOpen, a.Status)
		_, err := time.Parse(model.DateLayout, a.OpenDate)
		assert.NoError(t, err)
	}
}

func TestAccountsEmptyPopulation(t *testing.T) {
	_, err := newGenerator(1).Accounts(nil, 3)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrEmptyPopulation))

	rows, err := newGenerator(1).Accounts(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTransactionsInvariants(t *testing.T) {
	g := newGenerator(3)
	customers, err := g.Customers(10, 5)
	require.NoError(t, err)
	internal, external := splitParties(customers)
	accounts, err := g.Accounts(internal, 15)
	require.NoError(t, err)
	refs := refsFor(accounts)

	txs, err := g.Transactions(refs, external, 1000)
	require.NoError(t, err)
	require.Len(t, txs, 1000)

	currencyOf := map[string]string{}
	ownerOf := map[string]string{}
	for _, a := range accounts {
		currencyOf[a.AccountID] = a.Currency
		ownerOf[a.AccountID] = a.CustomerID
	}

	for _, tx := range txs {
		assert.Greater(t, tx.AmountMinor, int64(0))
		assert.True(t, tx.HasChannelFields(), "channel fields missing for %s", tx.Channel)
		assert.Equal(t, currencyOf[tx.AccountID], tx.Currency)
		assert.Equal(t, ownerOf[tx.AccountID], tx.CustomerID)
		require.NotNil(t, tx.CounterpartyID)
		assert.Contains(t, external, *tx.CounterpartyID)
		assert.True(t, strings.HasPrefix(tx.Description, string(tx.Channel)+" "+string(tx.Direction)+" "))

		switch tx.Channel {
		case model.ChannelCard:
			assert.Contains(t, mccCodes, *tx.MCCCode)
			assert.Contains(t, merchants, *tx.MerchantName)
			assert.Nil(t, tx.TerminalID)
			assert.Nil(t, tx.BranchID)
		case model.ChannelATM:
			assert.Regexp(t, `^ATM\d{4}$`, *tx.TerminalID)
			assert.Nil(t, tx.BranchID)
		case model.ChannelCash:
			assert.Regexp(t, `^BR\d{3}$`, *tx.BranchID)
			assert.Nil(t, tx.TerminalID)
		}
	}
}

func TestTransactionsWithoutExternals(t *testing.T) {
	g := newGenerator(4)
	refs := []model.AccountRef{{AccountID: "acc-1", CustomerID: "cust-1", Currency: "EUR"}}

	txs, err := g.Transactions(refs, nil, 20)
	require.NoError(t, err)
	for _, tx := range txs {
		assert.Nil(t, tx.CounterpartyID)
		assert.Equal(t, "EUR", tx.Currency)
	}
}

func TestTransactionsEmptyPopulation(t *testing.T) {
	_, err := newGenerator(1).Transactions(nil, []string{"x"}, 1)
	assert.True(t, apperr.HasCode(err, apperr.ErrEmptyPopulation))
}

func TestChannelMix(t *testing.T) {
	g := newGenerator(5)
	refs := []model.AccountRef{{AccountID: "a", CustomerID: "c", Currency: "PLN"}}
	txs, err := g.Transactions(refs, nil, 20000)
	require.NoError(t, err)

	counts := map[model.Channel]int{}
	for _, tx := range txs {
		counts[tx.Channel]++
	}
	assert.InDelta(t, 0.60, float64(counts[model.ChannelCard])/20000, 0.02)
	assert.InDelta(t, 0.25, float64(counts[model.ChannelATM])/20000, 0.02)
	assert.InDelta(t, 0.15, float64(counts[model.ChannelCash])/20000, 0.02)
}

func TestSameSeedSameBatches(t *testing.T) {
	run := func() ([]model.Customer, []model.Account, []model.CashTransaction) {
		g := newGenerator(42)
		customers, err := g.Customers(8, 4)
		require.NoError(t, err)
		internal, external := splitParties(customers)
		accounts, err := g.Accounts(internal, 12)
		require.NoError(t, err)
		txs, err := g.Transactions(refsFor(accounts), external, 100)
		require.NoError(t, err)
		return customers, accounts, txs
	}

	c1, a1, t1 := run()
	c2, a2, t2 := run()
	assert.Equal(t, c1, c2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, t1, t2)
}

func TestRandomIDsKeepAttributes(t *testing.T) {
	seeded := New(sampler.New(9, sampler.WithNow(fixedNow)), SeededIDs(9))
	random := New(sampler.New(9, sampler.WithNow(fixedNow)), RandomIDs())

	a, err := seeded.Customers(20, 0)
	require.NoError(t, err)
	b, err := random.Customers(20, 0)
	require.NoError(t, err)

	for i := range a {
		assert.NotEqual(t, a[i].CustomerID, b[i].CustomerID)
		assert.Equal(t, a[i].CustomerType, b[i].CustomerType)
		assert.Equal(t, a[i].Country, b[i].Country)
		assert.Equal(t, a[i].RiskRating, b[i].RiskRating)
		assert.Equal(t, a[i].PEPFlag, b[i].PEPFlag)
	}
}
