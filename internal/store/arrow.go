package store

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"

	"github.com/example/txanalytics/pkg/transaction"
)

const (
	metaDatasetID = "dataset_id"
	metaCreatedAt = "created_at"
	metaPriceKind = "price_kind"
)

// Pool is the allocator used for Arrow buffers.
var Pool = memory.NewGoAllocator()

func arrowSchema(meta Metadata, priceKind transaction.Kind) *arrow.Schema {
	md := arrow.NewMetadata(
		[]string{metaDatasetID, metaCreatedAt, metaPriceKind},
		[]string{meta.DatasetID, meta.CreatedAt.UTC().Format(time.RFC3339Nano), string(priceKind)},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: transaction.ColTransactionID.String(), Type: arrow.PrimitiveTypes.Int64},
		{Name: transaction.ColUserID.String(), Type: arrow.PrimitiveTypes.Int64},
		{Name: transaction.ColProductID.String(), Type: arrow.PrimitiveTypes.Int64},
		{Name: transaction.ColQuantity.String(), Type: arrow.PrimitiveTypes.Int64},
		{Name: transaction.ColPrice.String(), Type: arrow.PrimitiveTypes.Float64},
		{Name: transaction.ColTimestamp.String(), Type: arrow.FixedWidthTypes.Timestamp_us},
	}, &md)
}

// WriteArrow writes the table as a single-batch Arrow IPC stream. The price
// kind is kept in the schema metadata so integer prices load as integer.
func WriteArrow(w io.Writer, t *transaction.Table, meta Metadata) error {
	schema := arrowSchema(meta, t.PriceKind())
	b := array.NewRecordBuilder(Pool, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues(t.TransactionIDs, nil)
	b.Field(1).(*array.Int64Builder).AppendValues(t.UserIDs, nil)
	b.Field(2).(*array.Int64Builder).AppendValues(t.ProductIDs, nil)
	b.Field(3).(*array.Int64Builder).AppendValues(t.Quantities, nil)

	prices := b.Field(4).(*array.Float64Builder)
	for _, p := range t.Prices {
		prices.Append(p.InexactFloat64())
	}
	stamps := b.Field(5).(*array.TimestampBuilder)
	for _, ts := range t.Timestamps {
		stamps.Append(arrow.Timestamp(ts.UnixMicro()))
	}

	rec := b.NewRecord()
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(Pool))
	if err := wr.Write(rec); err != nil {
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	return wr.Close()
}

// ReadArrow reads every batch of an Arrow IPC stream written by WriteArrow.
func ReadArrow(r io.Reader) (*transaction.Table, Metadata, error) {
	rd, err := ipc.NewReader(r, ipc.WithAllocator(Pool))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to open arrow stream: %w", err)
	}
	defer rd.Release()

	meta, err := schemaMetadata(rd.Schema())
	if err != nil {
		return nil, Metadata{}, err
	}
	if n := len(rd.Schema().Fields()); n != transaction.NumColumns {
		return nil, Metadata{}, fmt.Errorf("arrow schema has %d fields, want %d", n, transaction.NumColumns)
	}

	t := &transaction.Table{}
	for rd.Next() {
		if err := appendBatch(t, rd.Record()); err != nil {
			return nil, Metadata{}, err
		}
	}
	if err := rd.Err(); err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to read arrow stream: %w", err)
	}

	md := rd.Schema().Metadata()
	if i := md.FindKey(metaPriceKind); i >= 0 && md.Values()[i] == string(transaction.KindInteger) {
		t.CastPriceToInt()
	}
	return t, meta, nil
}

func appendBatch(t *transaction.Table, rec arrow.Record) error {
	ids, ok0 := rec.Column(0).(*array.Int64)
	users, ok1 := rec.Column(1).(*array.Int64)
	products, ok2 := rec.Column(2).(*array.Int64)
	quantities, ok3 := rec.Column(3).(*array.Int64)
	prices, ok4 := rec.Column(4).(*array.Float64)
	stamps, ok5 := rec.Column(5).(*array.Timestamp)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5) {
		return fmt.Errorf("arrow record columns do not match the transaction schema")
	}

	for i := 0; i < int(rec.NumRows()); i++ {
		r := transaction.Record{
			TransactionID: ids.Value(i),
			UserID:        users.Value(i),
			ProductID:     products.Value(i),
			Quantity:      quantities.Value(i),
			Price:         decimal.NewFromFloat(prices.Value(i)),
			Timestamp:     time.UnixMicro(int64(stamps.Value(i))).UTC(),
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		t.Append(r)
	}
	return nil
}

func schemaMetadata(schema *arrow.Schema) (Metadata, error) {
	md := schema.Metadata()
	var meta Metadata
	if i := md.FindKey(metaDatasetID); i >= 0 {
		meta.DatasetID = md.Values()[i]
	}
	if i := md.FindKey(metaCreatedAt); i >= 0 && md.Values()[i] != "" {
		ts, err := time.Parse(time.RFC3339Nano, md.Values()[i])
		if err != nil {
			return Metadata{}, fmt.Errorf("invalid %s metadata: %w", metaCreatedAt, err)
		}
		meta.CreatedAt = ts
	}
	return meta, nil
}
