// Package alert flags the largest transactions of a generated batch.
//
// The rule is a plain amount ranking. Alerts carry the STRUCTURING typology
// as a fixed placeholder label; no structuring pattern is detected.
package alert

import (
	"sort"
	"time"

	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultTopPercent = 0.01
	DefaultRuleID     = "R_HIGH_AMOUNT"
	DefaultTypology   = "STRUCTURING"

	maxScore = 100
)

var scoreDivisor = decimal.NewFromInt(1000)

// IDSource matches generator.IDSource.
type IDSource interface {
	NewID() string
}

type Scorer struct {
	topPercent float64
	ruleID     string
	typology   string
}

type Option func(*Scorer)

func WithTopPercent(p float64) Option {
	return func(s *Scorer) {
		s.topPercent = p
	}
}

func WithRuleID(id string) Option {
	return func(s *Scorer) {
		s.ruleID = id
	}
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		topPercent: DefaultTopPercent,
		ruleID:     DefaultRuleID,
		typology:   DefaultTypology,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count is how many alerts a batch of n transactions yields: at least one for
// a non-empty batch, none for an empty one.
func (s *Scorer) Count(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(float64(n) * s.topPercent)
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Select returns the Count(len(txs)) transactions with the largest amounts.
// Equal amounts keep their generation order.
func (s *Scorer) Select(txs []model.CashTransaction) []model.CashTransaction {
	ranked := make([]model.CashTransaction, len(txs))
	copy(ranked, txs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AmountMinor > ranked[j].AmountMinor
	})
	return ranked[:s.Count(len(ranked))]
}

// Score emits one OPEN alert per selected transaction. Only the given batch
// is ranked, never previously persisted transactions.
func (s *Scorer) Score(txs []model.CashTransaction, ids IDSource, now time.Time) []model.Alert {
	chosen := s.Select(txs)
	createdAt := now.UTC().Format(model.TimeLayout)

	alerts := make([]model.Alert, 0, len(chosen))
	for _, tx := range chosen {
		alerts = append(alerts, model.Alert{
			AlertID:    ids.NewID(),
			CreatedAt:  createdAt,
			EntityType: model.EntityTransaction,
			EntityID:   tx.TxID,
			RuleID:     s.ruleID,
			Score:      AmountScore(tx.AmountMinor),
			Label:      model.Ptr(true),
			Typology:   model.Ptr(s.typology),
			Outcome:    model.Ptr(model.OutcomeOpen),
		})
	}
	return alerts
}

// AmountScore maps an amount in minor units to min(100, amount/1000) rounded
// to two decimals.
func AmountScore(amountMinor int64) float64 {
	score := decimal.NewFromInt(amountMinor).Div(scoreDivisor)
	if score.GreaterThan(decimal.NewFromInt(maxScore)) {
		score = decimal.NewFromInt(maxScore)
	}
	f, _ := score.Round(2).Float64()
	return f
}
