package transaction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CastPriceToInt truncates every price toward zero, in place.
func (t *Table) CastPriceToInt() *Table {
	for i, p := range t.Prices {
		t.Prices[i] = p.Truncate(0)
	}
	t.intPrices = true
	return t
}

// IncreasePrices multiplies every price by 1 + percent/100, in place.
// A negative percent lowers prices.
func (t *Table) IncreasePrices(percent decimal.Decimal) *Table {
	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	for i, p := range t.Prices {
		t.Prices[i] = p.Mul(factor)
	}
	t.intPrices = false
	return t
}

// FilterByQuantity returns the rows whose quantity is greater than minExclusive.
func (t *Table) FilterByQuantity(minExclusive int64) *Table {
	return t.where(func(i int) bool { return t.Quantities[i] > minExclusive })
}

// SelectByUser returns the rows belonging to userID.
func (t *Table) SelectByUser(userID int64) *Table {
	return t.where(func(i int) bool { return t.UserIDs[i] == userID })
}

// Period is an inclusive time range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects periods that end before they start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidRange,
			p.End.Format(time.RFC3339), p.Start.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether ts lies in the period, bounds included.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.Start) && !ts.After(p.End)
}

// SelectByDateRange returns the rows with start <= timestamp <= end.
func (t *Table) SelectByDateRange(start, end time.Time) (*Table, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return t.where(func(i int) bool { return p.Contains(t.Timestamps[i]) }), nil
}

// CompareRevenue computes total revenue independently for two periods.
func (t *Table) CompareRevenue(p1, p2 Period) (decimal.Decimal, decimal.Decimal, error) {
	first, err := t.SelectByDateRange(p1.Start, p1.End)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("first period: %w", err)
	}
	second, err := t.SelectByDateRange(p2.Start, p2.End)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("second period: %w", err)
	}
	return first.TotalRevenue(), second.TotalRevenue(), nil
}

// MaskedTable hides rows of a table without removing them.
type MaskedTable struct {
	table  *Table
	masked []bool
}

// MaskZeroQuantity hides the rows whose quantity is zero. Row count and
// positions are unchanged; use Compressed to drop the hidden rows.
func (t *Table) MaskZeroQuantity() *MaskedTable {
	masked := make([]bool, t.Len())
	for i, q := range t.Quantities {
		masked[i] = q == 0
	}
	return &MaskedTable{table: t, masked: masked}
}

// Len returns the row count of the underlying table, hidden rows included.
func (m *MaskedTable) Len() int {
	return len(m.masked)
}

// IsMasked reports whether row i is hidden.
func (m *MaskedTable) IsMasked(i int) bool {
	return m.masked[i]
}

// Visible returns the number of rows that are not hidden.
func (m *MaskedTable) Visible() int {
	n := 0
	for _, h := range m.masked {
		if !h {
			n++
		}
	}
	return n
}

// Table returns the underlying table.
func (m *MaskedTable) Table() *Table {
	return m.table
}

// Compressed returns a new table holding only the visible rows.
func (m *MaskedTable) Compressed() *Table {
	return m.table.where(func(i int) bool { return !m.masked[i] })
}
