package sampler

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/shopspring/decimal"
)

var (
	Countries  = []string{"PL", "DE", "CZ", "SK", "LT", "LV", "EE", "GB", "US", "TR", "FR", "ES"}
	Currencies = []string{"PLN", "EUR", "USD"}
	RiskLevels = []model.RiskRating{model.RiskLow, model.RiskMedium, model.RiskHigh}

	// HomeCountry is Countries[0]; it is drawn homeWeight times as often as any other.
	HomeCountry = Countries[0]

	currencyWeights = []float64{7, 2, 1}
	riskWeights     = []float64{6, 3, 1}
	countryWeights  = homeBiased(len(Countries), 7)
)

const (
	DefaultTxWindowDays    = 90
	DefaultOpenDateYears   = 2
	minorUnitsPerMajorUnit = 2
)

// triangle holds the (low, high, mode) amount distribution in major units.
type triangle struct {
	low, high, mode float64
}

var amountShapes = map[model.Channel]triangle{
	model.ChannelCard: {5, 400, 40},
	model.ChannelATM:  {50, 1500, 400},
	model.ChannelCash: {50, 5000, 600},
}

// Source is the single random source of a generation run. It is not safe for
// concurrent use.
type Source struct {
	rand          *rand.Rand
	now           time.Time
	txWindow      time.Duration
	openDateYears int
}

type Option func(*Source)

// WithNow pins the generation clock. Timestamps and open dates are drawn
// relative to it.
func WithNow(now time.Time) Option {
	return func(s *Source) {
		s.now = now.UTC()
	}
}

func WithTxWindow(days int) Option {
	return func(s *Source) {
		if days > 0 {
			s.txWindow = time.Duration(days) * 24 * time.Hour
		}
	}
}

func WithOpenDateWindow(years int) Option {
	return func(s *Source) {
		if years > 0 {
			s.openDateYears = years
		}
	}
}

func New(seed int64, opts ...Option) *Source {
	s := &Source{
		rand:          rand.New(rand.NewSource(seed)),
		now:           time.Now().UTC(),
		txWindow:      DefaultTxWindowDays * 24 * time.Hour,
		openDateYears: DefaultOpenDateYears,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the generation clock.
func (s *Source) Now() time.Time {
	return s.now
}

func (s *Source) Float64() float64 {
	return s.rand.Float64()
}

func (s *Source) Intn(n int) int {
	return s.rand.Intn(n)
}

// IntRange returns an integer in [lo, hi], both ends inclusive.
func (s *Source) IntRange(lo, hi int) int {
	return lo + s.rand.Intn(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.rand.Float64() < p
}

// Weighted returns an index into weights, drawn proportionally to the weights.
func (s *Source) Weighted(weights []float64) int {
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	x := s.rand.Float64() * total
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] > x })
	if idx >= len(cum) {
		idx = len(cum) - 1
	}
	return idx
}

func Pick[T any](s *Source, items []T) T {
	return items[s.rand.Intn(len(items))]
}

func PickWeighted[T any](s *Source, items []T, weights []float64) T {
	return items[s.Weighted(weights)]
}

func (s *Source) Country() string {
	return PickWeighted(s, Countries, countryWeights)
}

func (s *Source) Currency() string {
	return PickWeighted(s, Currencies, currencyWeights)
}

func (s *Source) RiskRating() model.RiskRating {
	return PickWeighted(s, RiskLevels, riskWeights)
}

// AmountMinor draws an amount for the channel in minor units. The result is
// always at least 1.
func (s *Source) AmountMinor(channel model.Channel) int64 {
	shape, ok := amountShapes[channel]
	if !ok {
		shape = amountShapes[model.ChannelCash]
	}
	major := s.triangular(shape.low, shape.high, shape.mode)
	minor := decimal.NewFromFloat(major).Shift(minorUnitsPerMajorUnit).Round(0).IntPart()
	if minor < 1 {
		return 1
	}
	return minor
}

func (s *Source) triangular(low, high, mode float64) float64 {
	if high == low {
		return low
	}
	u := s.rand.Float64()
	c := (mode - low) / (high - low)
	if u > c {
		u = 1 - u
		c = 1 - c
		low, high = high, low
	}
	return low + (high-low)*math.Sqrt(u*c)
}

// Timestamp returns a uniform instant within the trailing transaction window.
func (s *Source) Timestamp() string {
	start := s.now.Add(-s.txWindow)
	offset := time.Duration(s.rand.Float64() * float64(s.txWindow))
	return start.Add(offset).Truncate(time.Second).Format(model.TimeLayout)
}

// OpenDate returns a date between the first day of the month openDateYears
// ago and today.
func (s *Source) OpenDate() string {
	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(today.Year()-s.openDateYears, today.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return start.AddDate(0, 0, s.IntRange(0, days)).Format(model.DateLayout)
}

func homeBiased(n int, homeWeight float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	w[0] = homeWeight
	return w
}
