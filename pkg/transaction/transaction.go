package transaction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record represents a single purchase
type Record struct {
	TransactionID int64           `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Revenue is quantity times price.
func (r Record) Revenue() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(r.Quantity))
}

// Validate rejects negative quantities and prices.
func (r Record) Validate() error {
	if r.Quantity < 0 {
		return fmt.Errorf("%w: transaction %d has quantity %d", ErrInvalidRecord, r.TransactionID, r.Quantity)
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("%w: transaction %d has price %s", ErrInvalidRecord, r.TransactionID, r.Price)
	}
	return nil
}

// Column identifies one of the six fixed table columns.
type Column int

const (
	ColTransactionID Column = iota
	ColUserID
	ColProductID
	ColQuantity
	ColPrice
	ColTimestamp
)

var columnNames = [...]string{
	ColTransactionID: "transaction_id",
	ColUserID:        "user_id",
	ColProductID:     "product_id",
	ColQuantity:      "quantity",
	ColPrice:         "price",
	ColTimestamp:     "timestamp",
}

// Columns returns every column in table order.
func Columns() []Column {
	return []Column{ColTransactionID, ColUserID, ColProductID, ColQuantity, ColPrice, ColTimestamp}
}

// NumColumns is the fixed width of a Table.
const NumColumns = len(columnNames)

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// Kind is the declared kind of the column.
func (c Column) Kind() Kind {
	switch c {
	case ColPrice:
		return KindDecimal
	case ColTimestamp:
		return KindTimestamp
	default:
		return KindInteger
	}
}

// ParseColumn looks a column up by name.
func ParseColumn(name string) (Column, error) {
	for i, n := range columnNames {
		if n == name {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

// Kind is the storage kind of a column.
type Kind string

const (
	KindInteger   Kind = "integer"
	KindDecimal   Kind = "decimal"
	KindTimestamp Kind = "timestamp"
)

// ColumnType pairs a column with the kind of the values it currently holds.
type ColumnType struct {
	Column Column
	Kind   Kind
}

// Table holds transactions column by column. All slices have the same length.
// A Table is owned by a single caller; CastPriceToInt and IncreasePrices
// modify it in place, so Clone first if another reader needs the old prices.
type Table struct {
	TransactionIDs []int64
	UserIDs        []int64
	ProductIDs     []int64
	Quantities     []int64
	Prices         []decimal.Decimal
	Timestamps     []time.Time

	intPrices bool
}

// NewTable builds a table from records.
func NewTable(records ...Record) *Table {
	t := &Table{}
	for _, r := range records {
		t.Append(r)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.TransactionIDs)
}

// Append adds a record to the end of the table.
func (t *Table) Append(r Record) {
	t.TransactionIDs = append(t.TransactionIDs, r.TransactionID)
	t.UserIDs = append(t.UserIDs, r.UserID)
	t.ProductIDs = append(t.ProductIDs, r.ProductID)
	t.Quantities = append(t.Quantities, r.Quantity)
	t.Prices = append(t.Prices, r.Price)
	t.Timestamps = append(t.Timestamps, r.Timestamp)
}

// Row returns the record at index i.
func (t *Table) Row(i int) Record {
	return Record{
		TransactionID: t.TransactionIDs[i],
		UserID:        t.UserIDs[i],
		ProductID:     t.ProductIDs[i],
		Quantity:      t.Quantities[i],
		Price:         t.Prices[i],
		Timestamp:     t.Timestamps[i],
	}
}

// Records returns the rows as a slice.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return &Table{
		TransactionIDs: append([]int64(nil), t.TransactionIDs...),
		UserIDs:        append([]int64(nil), t.UserIDs...),
		ProductIDs:     append([]int64(nil), t.ProductIDs...),
		Quantities:     append([]int64(nil), t.Quantities...),
		Prices:         append([]decimal.Decimal(nil), t.Prices...),
		Timestamps:     append([]time.Time(nil), t.Timestamps...),
		intPrices:      t.intPrices,
	}
}

// ColumnTypes reports the kind of every column. Price reports integer after
// CastPriceToInt until the next IncreasePrices.
func (t *Table) ColumnTypes() []ColumnType {
	cols := Columns()
	out := make([]ColumnType, len(cols))
	for i, c := range cols {
		k := c.Kind()
		if c == ColPrice {
			k = t.PriceKind()
		}
		out[i] = ColumnType{Column: c, Kind: k}
	}
	return out
}

// PriceKind reports whether prices are currently integer or decimal.
func (t *Table) PriceKind() Kind {
	if t.intPrices {
		return KindInteger
	}
	return KindDecimal
}

// Int64Column returns a copy of an integer column.
func (t *Table) Int64Column(col Column) ([]int64, error) {
	var src []int64
	switch col {
	case ColTransactionID:
		src = t.TransactionIDs
	case ColUserID:
		src = t.UserIDs
	case ColProductID:
		src = t.ProductIDs
	case ColQuantity:
		src = t.Quantities
	default:
		return nil, &ColumnTypeError{Column: col, Op: "int64 column"}
	}
	return append([]int64(nil), src...), nil
}

// selectRows returns a new table holding the rows at the given indices.
func (t *Table) selectRows(indices []int) *Table {
	out := &Table{
		TransactionIDs: make([]int64, 0, len(indices)),
		UserIDs:        make([]int64, 0, len(indices)),
		ProductIDs:     make([]int64, 0, len(indices)),
		Quantities:     make([]int64, 0, len(indices)),
		Prices:         make([]decimal.Decimal, 0, len(indices)),
		Timestamps:     make([]time.Time, 0, len(indices)),
		intPrices:      t.intPrices,
	}
	for _, i := range indices {
		out.Append(t.Row(i))
	}
	return out
}

// where returns a new table with the rows for which keep is true.
func (t *Table) where(keep func(i int) bool) *Table {
	var indices []int
	for i := 0; i < t.Len(); i++ {
		if keep(i) {
			indices = append(indices, i)
		}
	}
	return t.selectRows(indices)
}
