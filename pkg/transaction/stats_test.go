package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Describe(t *testing.T) {
	tbl := scenarioTable()

	t.Run("quantity", func(t *testing.T) {
		s, err := tbl.Describe(ColQuantity)
		require.NoError(t, err)

		assert.Equal(t, ColQuantity, s.Column)
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, "5", s.Sum.String())
		assert.Equal(t, "1.66666667", s.Mean.String())
		assert.Equal(t, "2", s.Median.String())
		assert.InDelta(t, 1.2472, s.StdDev, 1e-4)
	})

	t.Run("price median of even count", func(t *testing.T) {
		even := NewTable(
			rec(1, 100, 40, 1, "4.00", baseTime),
			rec(2, 100, 40, 1, "1.00", baseTime),
			rec(3, 100, 40, 1, "3.00", baseTime),
			rec(4, 100, 40, 1, "2.00", baseTime),
		)
		s, err := even.Describe(ColPrice)
		require.NoError(t, err)
		assert.Equal(t, "2.5", s.Median.String())
		assert.Equal(t, "10", s.Sum.String())
		assert.Equal(t, []int64{1, 2, 3, 4}, even.TransactionIDs)
		assert.Equal(t, "4", even.Prices[0].String(), "describe must not reorder the table")
	})

	t.Run("timestamp is not numeric", func(t *testing.T) {
		_, err := tbl.Describe(ColTimestamp)
		assert.ErrorIs(t, err, ErrColumnType)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := (&Table{}).Describe(ColQuantity)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestTable_DescribeAll(t *testing.T) {
	summaries, err := scenarioTable().DescribeAll()
	require.NoError(t, err)

	require.Len(t, summaries, NumColumns-1)
	assert.Equal(t, ColTransactionID, summaries[0].Column)
	assert.Equal(t, ColPrice, summaries[len(summaries)-1].Column)

	_, err = (&Table{}).DescribeAll()
	assert.ErrorIs(t, err, ErrEmptyInput)
}
