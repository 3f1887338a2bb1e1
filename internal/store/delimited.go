package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/txanalytics/pkg/transaction"
)

func header() []string {
	cols := transaction.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.String()
	}
	return out
}

// WriteDelimited writes a header row followed by one row per record.
func WriteDelimited(w io.Writer, t *transaction.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		row := []string{
			strconv.FormatInt(r.TransactionID, 10),
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.ProductID, 10),
			strconv.FormatInt(r.Quantity, 10),
			r.Price.String(),
			r.Timestamp.Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadDelimited parses what WriteDelimited wrote. Values that do not parse as
// their column's kind fail with a *transaction.ColumnTypeError; negative
// quantities or prices fail with transaction.ErrInvalidRecord. The price kind
// is not recorded, so prices always load as decimal.
func ReadDelimited(r io.Reader, comma rune) (*transaction.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = transaction.NumColumns

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	want := header()
	for i := range want {
		if strings.TrimSpace(head[i]) != want[i] {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, head[i], want[i])
		}
	}

	t := &transaction.Table{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Append(rec)
	}
	return t, nil
}

func parseRow(row []string) (transaction.Record, error) {
	var rec transaction.Record
	ints := []*int64{&rec.TransactionID, &rec.UserID, &rec.ProductID, &rec.Quantity}
	for i, dst := range ints {
		v, err := strconv.ParseInt(strings.TrimSpace(row[i]), 10, 64)
		if err != nil {
			return rec, &transaction.ColumnTypeError{Column: transaction.Column(i), Op: "parse", Value: row[i]}
		}
		*dst = v
	}

	price, err := decimal.NewFromString(strings.TrimSpace(row[transaction.ColPrice]))
	if err != nil {
		return rec, &transaction.ColumnTypeError{Column: transaction.ColPrice, Op: "parse", Value: row[transaction.ColPrice]}
	}
	rec.Price = price

	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(row[transaction.ColTimestamp]))
	if err != nil {
		return rec, &transaction.ColumnTypeError{Column: transaction.ColTimestamp, Op: "parse", Value: row[transaction.ColTimestamp]}
	}
	rec.Timestamp = ts
	return rec, rec.Validate()
}
