package display

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/txanalytics/pkg/transaction"
)

// DefaultLabel is printed when no label is given.
const DefaultLabel = "Array:"

// MaskedCell stands in for every value of a hidden row.
const MaskedCell = "--"

// Printer writes labelled values for a human reader.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Print writes the label, a blank line, the formatted value and a trailing
// newline. Tables are written as aligned columns.
func (p *Printer) Print(v any, label ...string) {
	msg := DefaultLabel
	if len(label) > 0 && label[0] != "" {
		msg = label[0]
	}
	fmt.Fprintf(p.w, "%s\n\n", msg)

	switch val := v.(type) {
	case *transaction.Table:
		writeTable(p.w, val, nil)
	case *transaction.MaskedTable:
		writeTable(p.w, val.Table(), val.IsMasked)
	default:
		fmt.Fprintln(p.w, val)
	}
	fmt.Fprintln(p.w)
}

func writeTable(w io.Writer, t *transaction.Table, masked func(int) bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	cols := transaction.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	fmt.Fprintln(tw, strings.Join(names, "\t")+"\t")

	for i := 0; i < t.Len(); i++ {
		if masked != nil && masked(i) {
			fmt.Fprintln(tw, strings.Repeat(MaskedCell+"\t", len(cols)))
			continue
		}
		r := t.Row(i)
		cells := []string{
			strconv.FormatInt(r.TransactionID, 10),
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.ProductID, 10),
			strconv.FormatInt(r.Quantity, 10),
			r.Price.StringFixed(2),
			r.Timestamp.Format(time.DateTime),
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	tw.Flush()
}
