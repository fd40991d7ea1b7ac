package model

// TimeLayout is the UTC text layout every persisted timestamp uses.
const TimeLayout = "2006-01-02T15:04:05Z"

// DateLayout is used for account open/close dates.
const DateLayout = "2006-01-02"

type CustomerType string

const (
	CustomerPerson CustomerType = "PERSON"
	CustomerOrg    CustomerType = "ORG"
)

type RiskRating string

const (
	RiskLow    RiskRating = "LOW"
	RiskMedium RiskRating = "MEDIUM"
	RiskHigh   RiskRating = "HIGH"
)

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
)

type ProductType string

const (
	ProductChecking   ProductType = "CHECKING"
	ProductSavings    ProductType = "SAVINGS"
	ProductCreditCard ProductType = "CREDIT_CARD"
	ProductPrepaid    ProductType = "PREPAID"
)

type AccountStatus string

const (
	AccountOpen   AccountStatus = "OPEN"
	AccountClosed AccountStatus = "CLOSED"
	AccountFrozen AccountStatus = "FROZEN"
)

type Channel string

const (
	ChannelCard Channel = "CARD"
	ChannelATM  Channel = "ATM"
	ChannelCash Channel = "CASH"
)

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

type EntityType string

const (
	EntityTransaction EntityType = "TRANSACTION"
	EntityAccount     EntityType = "ACCOUNT"
	EntityCustomer    EntityType = "CUSTOMER"
)

type Outcome string

const (
	OutcomeOpen      Outcome = "OPEN"
	OutcomeClosed    Outcome = "CLOSED"
	OutcomeEscalated Outcome = "ESCALATED"
	OutcomeDismissed Outcome = "DISMISSED"
)

// Customer is either an internal client owning accounts or an external
// counterparty that only shows up on the other side of transactions.
type Customer struct {
	CustomerID   string         `json:"customer_id" yaml:"customer_id"`
	IsInternal   bool           `json:"is_internal" yaml:"is_internal"`
	CustomerType CustomerType   `json:"customer_type" yaml:"customer_type"`
	FullName     string         `json:"full_name" yaml:"full_name"`
	Country      string         `json:"country_iso2" yaml:"country_iso2"`
	RiskRating   RiskRating     `json:"risk_rating" yaml:"risk_rating"`
	PEPFlag      bool           `json:"pep_flag" yaml:"pep_flag"`
	CreatedAt    string         `json:"created_at_utc" yaml:"created_at_utc"`
	Status       CustomerStatus `json:"status" yaml:"status"`
}

type Account struct {
	AccountID   string        `json:"account_id" yaml:"account_id"`
	CustomerID  string        `json:"customer_id" yaml:"customer_id"`
	ProductType ProductType   `json:"product_type" yaml:"product_type"`
	Masked      string        `json:"iban_or_masked" yaml:"iban_or_masked"`
	Currency    string        `json:"currency_iso3" yaml:"currency_iso3"`
	OpenDate    string        `json:"open_date" yaml:"open_date"`
	CloseDate   *string       `json:"close_date,omitempty" yaml:"close_date,omitempty"`
	Status      AccountStatus `json:"status" yaml:"status"`
}

// AccountRef is the slice of an account the transaction stage needs after
// reloading accounts from storage.
type AccountRef struct {
	AccountID  string
	CustomerID string
	Currency   string
}

// CashTransaction carries channel specific fields: CARD sets MCCCode and
// MerchantName, ATM sets TerminalID, CASH sets BranchID.
type CashTransaction struct {
	TxID           string    `json:"tx_id" yaml:"tx_id"`
	Timestamp      string    `json:"ts_utc" yaml:"ts_utc"`
	AccountID      string    `json:"account_id" yaml:"account_id"`
	CustomerID     string    `json:"customer_id" yaml:"customer_id"`
	CounterpartyID *string   `json:"counterparty_customer_id,omitempty" yaml:"counterparty_customer_id,omitempty"`
	Channel        Channel   `json:"channel" yaml:"channel"`
	Direction      Direction `json:"direction" yaml:"direction"`
	AmountMinor    int64     `json:"amount_minor" yaml:"amount_minor"`
	Currency       string    `json:"currency_iso3" yaml:"currency_iso3"`
	Country        *string   `json:"country_iso2,omitempty" yaml:"country_iso2,omitempty"`
	MCCCode        *string   `json:"mcc_code,omitempty" yaml:"mcc_code,omitempty"`
	MerchantName   *string   `json:"merchant_name,omitempty" yaml:"merchant_name,omitempty"`
	TerminalID     *string   `json:"terminal_id,omitempty" yaml:"terminal_id,omitempty"`
	BranchID       *string   `json:"branch_id,omitempty" yaml:"branch_id,omitempty"`
	AuthCode       *string   `json:"auth_code,omitempty" yaml:"auth_code,omitempty"`
	Description    string    `json:"description" yaml:"description"`
}

// HasChannelFields reports whether the channel specific fields required for
// t.Channel are populated.
func (t CashTransaction) HasChannelFields() bool {
	switch t.Channel {
	case ChannelCard:
		return t.MCCCode != nil || t.MerchantName != nil
	case ChannelATM:
		return t.TerminalID != nil
	case ChannelCash:
		return t.BranchID != nil
	default:
		return false
	}
}

// Alert references the flagged entity by id only; there is no foreign key
// because the target table depends on EntityType.
type Alert struct {
	AlertID    string     `json:"alert_id" yaml:"alert_id"`
	CreatedAt  string     `json:"created_ts_utc" yaml:"created_ts_utc"`
	EntityType EntityType `json:"entity_type" yaml:"entity_type"`
	EntityID   string     `json:"entity_id" yaml:"entity_id"`
	RuleID     string     `json:"rule_id" yaml:"rule_id"`
	Score      float64    `json:"score" yaml:"score"`
	Label      *bool      `json:"label,omitempty" yaml:"label,omitempty"`
	Typology   *string    `json:"typology,omitempty" yaml:"typology,omitempty"`
	Outcome    *Outcome   `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	ClosedAt   *string    `json:"closed_ts_utc,omitempty" yaml:"closed_ts_utc,omitempty"`
}

// Ptr returns a pointer to v. Handy for the optional columns above.
func Ptr[T any](v T) *T {
	return &v
}

// BoolInt maps a bool to the 0/1 integer the schema stores.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
