package transaction

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/txanalytics/internal/clock"
)

// GeneratorOptions bounds the synthetic values. All ranges are inclusive.
type GeneratorOptions struct {
	UserMin, UserMax         int64
	ProductMin, ProductMax   int64
	QuantityMin, QuantityMax int64
	PriceMinCents            int64
	PriceMaxCents            int64
	Window                   time.Duration
}

// DefaultGeneratorOptions returns users 100-105, products 40-65, quantities
// 1-10, prices 1.00-1000.00 and timestamps from the last six weeks.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		UserMin:       100,
		UserMax:       105,
		ProductMin:    40,
		ProductMax:    65,
		QuantityMin:   1,
		QuantityMax:   10,
		PriceMinCents: 100,
		PriceMaxCents: 100000,
		Window:        6 * 7 * 24 * time.Hour,
	}
}

// Validate checks that every range is non-empty and non-negative where required.
func (o GeneratorOptions) Validate() error {
	switch {
	case o.UserMin > o.UserMax:
		return fmt.Errorf("%w: user range %d-%d", ErrInvalidOptions, o.UserMin, o.UserMax)
	case o.ProductMin > o.ProductMax:
		return fmt.Errorf("%w: product range %d-%d", ErrInvalidOptions, o.ProductMin, o.ProductMax)
	case o.QuantityMin < 0 || o.QuantityMin > o.QuantityMax:
		return fmt.Errorf("%w: quantity range %d-%d", ErrInvalidOptions, o.QuantityMin, o.QuantityMax)
	case o.PriceMinCents < 0 || o.PriceMinCents > o.PriceMaxCents:
		return fmt.Errorf("%w: price range %d-%d cents", ErrInvalidOptions, o.PriceMinCents, o.PriceMaxCents)
	case o.Window < 0:
		return fmt.Errorf("%w: negative window %s", ErrInvalidOptions, o.Window)
	}
	return nil
}

// Generator produces synthetic transaction tables.
type Generator struct {
	rng  *rand.Rand
	opts GeneratorOptions
	clk  clock.Clock
}

// NewGenerator returns a generator drawing from rng with timestamps ending at clk.Now().
func NewGenerator(rng *rand.Rand, opts GeneratorOptions, clk clock.Clock) *Generator {
	return &Generator{rng: rng, opts: opts, clk: clk}
}

// NewRand returns a PCG-backed source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds a table of count rows with transaction ids 1..count.
// A count of zero yields an empty table.
func (g *Generator) Generate(count int) (*Table, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidOptions, count)
	}
	if err := g.opts.Validate(); err != nil {
		return nil, err
	}

	end := g.clk.Now().Truncate(time.Second)
	start := end.Add(-g.opts.Window)
	span := int64(g.opts.Window / time.Second)

	t := &Table{}
	for i := 0; i < count; i++ {
		t.Append(Record{
			TransactionID: int64(i + 1),
			UserID:        g.between(g.opts.UserMin, g.opts.UserMax),
			ProductID:     g.between(g.opts.ProductMin, g.opts.ProductMax),
			Quantity:      g.between(g.opts.QuantityMin, g.opts.QuantityMax),
			Price:         decimal.New(g.between(g.opts.PriceMinCents, g.opts.PriceMaxCents), -2),
			Timestamp:     start.Add(time.Duration(g.between(0, span)) * time.Second),
		})
	}
	return t, nil
}

// between draws uniformly from [lo, hi]. The span is computed in uint64 so
// that ranges wider than math.MaxInt64 do not overflow.
func (g *Generator) between(lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		return int64(g.rng.Uint64())
	}
	return lo + int64(g.rng.Uint64N(span))
}

// GenerateTransactions generates count rows with the default options.
// A zero seed is replaced by one derived from the current time.
func GenerateTransactions(count int, seed uint64) (*Table, error) {
	clk := clock.NewRealClock()
	if seed == 0 {
		seed = uint64(clk.Now().UnixNano())
	}
	return NewGenerator(NewRand(seed), DefaultGeneratorOptions(), clk).Generate(count)
}
