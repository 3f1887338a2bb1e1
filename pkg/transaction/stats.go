package transaction

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Summary holds aggregate statistics for one numeric column.
type Summary struct {
	Column Column          `json:"column"`
	Count  int             `json:"count"`
	Sum    decimal.Decimal `json:"sum"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	// StdDev is the population standard deviation.
	StdDev float64 `json:"std_dev"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: count=%d sum=%s mean=%s median=%s std=%.4f",
		s.Column, s.Count, s.Sum, s.Mean, s.Median, s.StdDev)
}

// Describe computes sum, mean, median and standard deviation of a numeric column.
func (t *Table) Describe(col Column) (Summary, error) {
	values, err := t.decimalColumn(col)
	if err != nil {
		return Summary{}, err
	}
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("describe %s: %w", col, ErrEmptyInput)
	}

	n := decimal.NewFromInt(int64(len(values)))
	sum := decimal.Sum(values[0], values[1:]...)
	mean := sum.DivRound(n, 8)

	var sq float64
	for _, v := range values {
		d := v.Sub(mean).InexactFloat64()
		sq += d * d
	}

	return Summary{
		Column: col,
		Count:  len(values),
		Sum:    sum,
		Mean:   mean,
		Median: median(values),
		StdDev: math.Sqrt(sq / float64(len(values))),
	}, nil
}

// DescribeAll summarises every numeric column in table order.
func (t *Table) DescribeAll() ([]Summary, error) {
	var out []Summary
	for _, c := range Columns() {
		if c.Kind() == KindTimestamp {
			continue
		}
		s, err := t.Describe(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (t *Table) decimalColumn(col Column) ([]decimal.Decimal, error) {
	if col == ColPrice {
		return append([]decimal.Decimal(nil), t.Prices...), nil
	}
	ints, err := t.Int64Column(col)
	if err != nil {
		return nil, &ColumnTypeError{Column: col, Op: "describe"}
	}
	out := make([]decimal.Decimal, len(ints))
	for i, v := range ints {
		out[i] = decimal.NewFromInt(v)
	}
	return out, nil
}

// median sorts values in place.
func median(values []decimal.Decimal) decimal.Decimal {
	slices.SortFunc(values, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return values[mid-1].Add(values[mid]).Div(decimal.NewFromInt(2))
}
