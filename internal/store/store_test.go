package store

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/txanalytics/internal/clock"
	"github.com/example/txanalytics/pkg/transaction"
)

var createdAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleTable(t *testing.T) *transaction.Table {
	t.Helper()
	g := transaction.NewGenerator(transaction.NewRand(9), transaction.DefaultGeneratorOptions(), clock.NewMockClock(createdAt))
	tbl, err := g.Generate(20)
	require.NoError(t, err)
	// a price with more than two places survives the round trip too
	return tbl.IncreasePrices(decimal.NewFromInt(5))
}

func assertSameTable(t *testing.T, want, got *transaction.Table) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	assert.Equal(t, want.TransactionIDs, got.TransactionIDs)
	assert.Equal(t, want.UserIDs, got.UserIDs)
	assert.Equal(t, want.ProductIDs, got.ProductIDs)
	assert.Equal(t, want.Quantities, got.Quantities)
	for i := range want.Prices {
		assert.True(t, want.Prices[i].Round(2).Equal(got.Prices[i].Round(2)),
			"row %d price: want %s, got %s", i, want.Prices[i], got.Prices[i])
		assert.True(t, want.Timestamps[i].Equal(got.Timestamps[i]),
			"row %d timestamp: want %s, got %s", i, want.Timestamps[i], got.Timestamps[i])
	}
}

func TestDelimited_RoundTrip(t *testing.T) {
	for _, comma := range []rune{',', '\t'} {
		t.Run(string(comma), func(t *testing.T) {
			tbl := sampleTable(t)
			var buf bytes.Buffer

			require.NoError(t, WriteDelimited(&buf, tbl, comma))
			got, err := ReadDelimited(&buf, comma)
			require.NoError(t, err)

			assertSameTable(t, tbl, got)
			assert.True(t, tbl.TotalRevenue().Equal(got.TotalRevenue()), "delimited prices are exact")
		})
	}
}

func TestReadDelimited_Errors(t *testing.T) {
	const head = "transaction_id,user_id,product_id,quantity,price,timestamp\n"

	t.Run("non-numeric quantity", func(t *testing.T) {
		in := head + "1,100,40,many,9.99,2026-03-01T12:00:00Z\n"
		_, err := ReadDelimited(strings.NewReader(in), ',')

		var colErr *transaction.ColumnTypeError
		require.ErrorAs(t, err, &colErr)
		assert.Equal(t, transaction.ColQuantity, colErr.Column)
		assert.Equal(t, "many", colErr.Value)
		assert.ErrorIs(t, err, transaction.ErrColumnType)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("bad price", func(t *testing.T) {
		in := head + "1,100,40,1,cheap,2026-03-01T12:00:00Z\n"
		_, err := ReadDelimited(strings.NewReader(in), ',')
		assert.ErrorIs(t, err, transaction.ErrColumnType)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		in := head + "1,100,40,1,9.99,yesterday\n"
		_, err := ReadDelimited(strings.NewReader(in), ',')
		assert.ErrorIs(t, err, transaction.ErrColumnType)
	})

	t.Run("wrong header", func(t *testing.T) {
		in := "id,user,product,qty,price,ts\n"
		_, err := ReadDelimited(strings.NewReader(in), ',')
		assert.ErrorContains(t, err, "unexpected header")
	})

	t.Run("wrong width", func(t *testing.T) {
		in := head + "1,100,40\n"
		_, err := ReadDelimited(strings.NewReader(in), ',')
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		tbl, err := ReadDelimited(strings.NewReader(head), ',')
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
	})
}

func TestReadDelimited_NegativeValues(t *testing.T) {
	const head = "transaction_id,user_id,product_id,quantity,price,timestamp\n"

	tests := []struct {
		name string
		row  string
	}{
		{name: "negative quantity", row: "1,100,40,-3,9.99,2026-03-01T12:00:00Z\n"},
		{name: "negative price", row: "1,100,41,2,-9.99,2026-03-01T12:00:00Z\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadDelimited(strings.NewReader(head+tt.row), ',')
			assert.Nil(t, tbl)
			assert.ErrorIs(t, err, transaction.ErrInvalidRecord)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReadArrow_NegativeValues(t *testing.T) {
	bad := transaction.NewTable(transaction.Record{
		TransactionID: 1,
		UserID:        100,
		ProductID:     40,
		Quantity:      -3,
		Price:         decimal.RequireFromString("9.99"),
		Timestamp:     createdAt,
	})
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, bad, NewMetadata(createdAt)))

	_, _, err := ReadArrow(&buf)
	assert.ErrorIs(t, err, transaction.ErrInvalidRecord)
}

func TestArrow_KeepsIntegerPriceKind(t *testing.T) {
	tbl := sampleTable(t).CastPriceToInt()
	var buf bytes.Buffer

	require.NoError(t, WriteArrow(&buf, tbl, NewMetadata(createdAt)))
	got, _, err := ReadArrow(&buf)
	require.NoError(t, err)

	assert.Equal(t, transaction.KindInteger, got.PriceKind())
	assert.Equal(t, transaction.KindInteger, got.ColumnTypes()[transaction.ColPrice].Kind)
	assertSameTable(t, tbl, got)

	buf.Reset()
	require.NoError(t, WriteArrow(&buf, sampleTable(t), NewMetadata(createdAt)))
	got, _, err = ReadArrow(&buf)
	require.NoError(t, err)
	assert.Equal(t, transaction.KindDecimal, got.PriceKind())
}

func TestArrow_RoundTrip(t *testing.T) {
	tbl := sampleTable(t)
	meta := NewMetadata(createdAt)
	var buf bytes.Buffer

	require.NoError(t, WriteArrow(&buf, tbl, meta))
	got, gotMeta, err := ReadArrow(&buf)
	require.NoError(t, err)

	assertSameTable(t, tbl, got)
	assert.Equal(t, meta.DatasetID, gotMeta.DatasetID)
	assert.True(t, createdAt.Equal(gotMeta.CreatedAt))
}

func TestArrow_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteArrow(&buf, &transaction.Table{}, NewMetadata(createdAt)))
	got, _, err := ReadArrow(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestReadArrow_Garbage(t *testing.T) {
	_, _, err := ReadArrow(strings.NewReader("not an arrow stream"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data.csv", FormatCSV},
		{"out/data.TXT", FormatText},
		{"data.tsv", FormatText},
		{"snap.arrow", FormatArrow},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("data.npy")
	assert.Error(t, err)
}

func TestStore_SaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, zaptest.NewLogger(t))
	tbl := sampleTable(t)
	meta := NewMetadata(createdAt)

	for _, path := range []string{"out/data.csv", "out/data.txt", "out/data.arrow"} {
		t.Run(path, func(t *testing.T) {
			require.NoError(t, s.Save(path, tbl, meta))

			exists, err := afero.Exists(fs, path)
			require.NoError(t, err)
			assert.True(t, exists)

			got, gotMeta, err := s.Load(path)
			require.NoError(t, err)
			assertSameTable(t, tbl, got)
			if strings.HasSuffix(path, ".arrow") {
				assert.Equal(t, meta.DatasetID, gotMeta.DatasetID)
			} else {
				assert.Empty(t, gotMeta.DatasetID)
			}
		})
	}
}

func TestStore_Errors(t *testing.T) {
	s := New(afero.NewMemMapFs(), nil)

	_, _, err := s.Load("missing.csv")
	assert.ErrorContains(t, err, "failed to open")

	err = s.Save("data.xlsx", &transaction.Table{}, Metadata{})
	assert.ErrorContains(t, err, "unsupported file extension")
}
