package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(id, user, product, qty int64, price string, ts time.Time) Record {
	return Record{
		TransactionID: id,
		UserID:        user,
		ProductID:     product,
		Quantity:      qty,
		Price:         decimal.RequireFromString(price),
		Timestamp:     ts,
	}
}

// scenarioTable is the three-row example: (2, 10.00), (0, 5.00), (3, 1.50).
func scenarioTable() *Table {
	return NewTable(
		rec(1, 100, 40, 2, "10.00", baseTime),
		rec(2, 101, 41, 0, "5.00", baseTime.Add(24*time.Hour)),
		rec(3, 100, 42, 3, "1.50", baseTime.Add(48*time.Hour)),
	)
}

func TestTable_Append(t *testing.T) {
	tbl := &Table{}

	tbl.Append(rec(1, 100, 40, 2, "10.00", baseTime))

	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, int64(1), tbl.Row(0).TransactionID)
	assert.True(t, decimal.RequireFromString("10").Equal(tbl.Row(0).Price))
}

func TestTable_Clone(t *testing.T) {
	tbl := scenarioTable()
	clone := tbl.Clone()

	clone.IncreasePrices(decimal.NewFromInt(100))

	assert.Equal(t, "10", tbl.Prices[0].String())
	assert.Equal(t, "20", clone.Prices[0].String())
	assert.Equal(t, tbl.Len(), clone.Len())
}

func TestTable_Records(t *testing.T) {
	tbl := scenarioTable()

	records := tbl.Records()

	require.Len(t, records, 3)
	assert.Equal(t, int64(42), records[2].ProductID)
	assert.Equal(t, "20", records[0].Revenue().String())
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, rec(1, 100, 40, 0, "0", baseTime).Validate())

	err := rec(1, 100, 40, -1, "1", baseTime).Validate()
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Contains(t, err.Error(), "quantity -1")

	err = rec(1, 100, 40, 1, "-0.01", baseTime).Validate()
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Contains(t, err.Error(), "price -0.01")
}

func TestColumns(t *testing.T) {
	cols := Columns()
	assert.Len(t, cols, NumColumns)
	assert.Equal(t, 6, NumColumns)

	for _, c := range cols {
		parsed, err := ParseColumn(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseColumn("amount")
	assert.Error(t, err)
}

func TestTable_ColumnTypes(t *testing.T) {
	tbl := scenarioTable()

	types := tbl.ColumnTypes()
	require.Len(t, types, 6)
	assert.Equal(t, KindInteger, types[ColQuantity].Kind)
	assert.Equal(t, KindDecimal, types[ColPrice].Kind)
	assert.Equal(t, KindTimestamp, types[ColTimestamp].Kind)

	tbl.CastPriceToInt()
	assert.Equal(t, KindInteger, tbl.ColumnTypes()[ColPrice].Kind)

	tbl.IncreasePrices(decimal.NewFromInt(5))
	assert.Equal(t, KindDecimal, tbl.ColumnTypes()[ColPrice].Kind)
}

func TestTable_Int64Column(t *testing.T) {
	tbl := scenarioTable()

	users, err := tbl.Int64Column(ColUserID)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 100}, users)

	users[0] = 999
	assert.Equal(t, int64(100), tbl.UserIDs[0], "column must be a copy")

	_, err = tbl.Int64Column(ColTimestamp)
	assert.ErrorIs(t, err, ErrColumnType)

	var colErr *ColumnTypeError
	_, err = tbl.Int64Column(ColPrice)
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, ColPrice, colErr.Column)
}
