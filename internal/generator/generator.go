package generator

import (
	"fmt"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/SKR35/FCC-Synthetic-TM/internal/sampler"
)

var (
	products       = []model.ProductType{model.ProductChecking, model.ProductSavings, model.ProductCreditCard, model.ProductPrepaid}
	productWeights = []float64{6, 4, 3, 1}

	channels       = []model.Channel{model.ChannelCard, model.ChannelATM, model.ChannelCash}
	channelWeights = []float64{0.60, 0.25, 0.15}

	// grocery, electronics, restaurant, drugstore, gift shop, commuter transport, travel
	mccCodes  = []string{"5411", "5732", "5812", "5912", "5947", "4111", "4789"}
	merchants = []string{"Biedronka", "MediaMarkt", "Café Aurora", "Zabka", "Lotos", "Empik", "IKEA"}
)

const (
	pInternalPerson = 0.8
	pInternalPEP    = 0.02
	pExternalOrg    = 0.7
)

// Generator builds in-memory batches of entities from one random source.
type Generator struct {
	src *sampler.Source
	ids IDSource
}

func New(src *sampler.Source, ids IDSource) *Generator {
	return &Generator{src: src, ids: ids}
}

// Customers returns nInternal internal customers followed by nExternal
// external counterparties.
func (g *Generator) Customers(nInternal, nExternal int) ([]model.Customer, error) {
	if nInternal < 0 || nExternal < 0 {
		return nil, apperr.InvalidArgument("customer counts must not be negative (internal=%d, external=%d)", nInternal, nExternal)
	}

	createdAt := g.src.Now().Format(model.TimeLayout)
	rows := make([]model.Customer, 0, nInternal+nExternal)

	for i := 0; i < nInternal; i++ {
		id := g.ids.NewID()
		customerType := model.CustomerOrg
		if g.src.Bool(pInternalPerson) {
			customerType = model.CustomerPerson
		}
		rows = append(rows, model.Customer{
			CustomerID:   id,
			IsInternal:   true,
			CustomerType: customerType,
			FullName:     "Cust " + id[:8],
			Country:      g.src.Country(),
			RiskRating:   g.src.RiskRating(),
			PEPFlag:      g.src.Bool(pInternalPEP),
			CreatedAt:    createdAt,
			Status:       model.CustomerActive,
		})
	}

	// merchants, ATM operators, other banks' clients
	for i := 0; i < nExternal; i++ {
		id := g.ids.NewID()
		customerType := model.CustomerPerson
		if g.src.Bool(pExternalOrg) {
			customerType = model.CustomerOrg
		}
		rows = append(rows, model.Customer{
			CustomerID:   id,
			IsInternal:   false,
			CustomerType: customerType,
			FullName:     "Ext " + id[:8],
			Country:      g.src.Country(),
			RiskRating:   g.src.RiskRating(),
			PEPFlag:      false,
			CreatedAt:    createdAt,
			Status:       model.CustomerActive,
		})
	}

	return rows, nil
}

// Accounts assigns each of n accounts to a uniformly chosen internal customer.
func (g *Generator) Accounts(internalIDs []string, n int) ([]model.Account, error) {
	if n < 0 {
		return nil, apperr.InvalidArgument("account count must not be negative (got %d)", n)
	}
	if n > 0 && len(internalIDs) == 0 {
		return nil, apperr.EmptyPopulation("cannot generate %d accounts: no internal customers", n)
	}

	rows := make([]model.Account, 0, n)
	for i := 0; i < n; i++ {
		owner := sampler.Pick(g.src, internalIDs)
		product := sampler.PickWeighted(g.src, products, productWeights)
		currency := g.src.Currency()
		id := g.ids.NewID()
		rows = append(rows, model.Account{
			AccountID:   id,
			CustomerID:  owner,
			ProductType: product,
			Masked:      "***" + id[:6],
			Currency:    currency,
			OpenDate:    g.src.OpenDate(),
			Status:      model.AccountOpen,
		})
	}
	return rows, nil
}

// Transactions draws n cash transactions over the given accounts. The
// transaction currency is always the account currency.
func (g *Generator) Transactions(accounts []model.AccountRef, externalIDs []string, n int) ([]model.CashTransaction, error) {
	if n < 0 {
		return nil, apperr.InvalidArgument("transaction count must not be negative (got %d)", n)
	}
	if n > 0 && len(accounts) == 0 {
		return nil, apperr.EmptyPopulation("cannot generate %d transactions: no accounts", n)
	}

	rows := make([]model.CashTransaction, 0, n)
	for i := 0; i < n; i++ {
		acc := sampler.Pick(g.src, accounts)
		channel := sampler.PickWeighted(g.src, channels, channelWeights)
		direction := g.direction(channel)
		amount := g.src.AmountMinor(channel)
		country := g.src.Country()

		var counterparty *string
		if len(externalIDs) > 0 {
			counterparty = model.Ptr(sampler.Pick(g.src, externalIDs))
		}

		tx := model.CashTransaction{
			AccountID:      acc.AccountID,
			CustomerID:     acc.CustomerID,
			CounterpartyID: counterparty,
			Channel:        channel,
			Direction:      direction,
			AmountMinor:    amount,
			Currency:       acc.Currency,
			Country:        model.Ptr(country),
		}

		switch channel {
		case model.ChannelCard:
			tx.MCCCode = model.Ptr(sampler.Pick(g.src, mccCodes))
			tx.MerchantName = model.Ptr(sampler.Pick(g.src, merchants))
		case model.ChannelATM:
			tx.TerminalID = model.Ptr(fmt.Sprintf("ATM%d", g.src.IntRange(1000, 9999)))
		default:
			tx.BranchID = model.Ptr(fmt.Sprintf("BR%d", g.src.IntRange(100, 999)))
		}

		tx.TxID = g.ids.NewID()
		tx.Timestamp = g.src.Timestamp()
		tx.Description = fmt.Sprintf("%s %s %06x", channel, direction, g.src.Intn(1<<24))

		rows = append(rows, tx)
	}
	return rows, nil
}

func (g *Generator) direction(channel model.Channel) model.Direction {
	switch channel {
	case model.ChannelCard:
		if g.src.Bool(0.95) {
			return model.DirectionOut
		}
		return model.DirectionIn
	case model.ChannelATM:
		if g.src.Bool(0.98) {
			return model.DirectionOut
		}
		return model.DirectionIn
	default:
		if g.src.Bool(0.55) {
			return model.DirectionIn
		}
		return model.DirectionOut
	}
}
