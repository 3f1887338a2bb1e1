package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/txanalytics/internal/clock"
	"github.com/example/txanalytics/internal/config"
	"github.com/example/txanalytics/internal/display"
	"github.com/example/txanalytics/pkg/transaction"
)

const week = 7 * 24 * time.Hour

// Runner walks a table through every query and transform in order,
// printing each intermediate result.
type Runner struct {
	cfg     config.ReportConfig
	printer *display.Printer
	clk     clock.Clock
	logger  *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg config.ReportConfig, printer *display.Printer, clk clock.Clock, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, printer: printer, clk: clk, logger: logger}
}

// Run mutates t: prices are truncated and then increased.
func (r *Runner) Run(t *transaction.Table) error {
	rows := t.Len()
	p := r.printer
	r.logger.Info("running report", zap.Int("rows", rows))

	p.Print(t, "Initial Transaction Data:")

	p.Print(t.TotalRevenue().StringFixed(2), "Total Revenue:")
	p.Print(t.UniqueUserCount(), "Unique Users:")

	switch product, err := t.MostPurchasedProduct(); {
	case errors.Is(err, transaction.ErrEmptyInput):
		p.Print("none", "Most Purchased Product ID:")
	case err != nil:
		return err
	default:
		p.Print(product, "Most Purchased Product ID:")
	}

	t.CastPriceToInt()
	r.logger.Debug("cast prices to int")
	p.Print(t, "Transaction Data after Converting Prices to Int:")
	p.Print(t.ColumnTypes(), "Data Types:")

	p.Print(t.ProductQuantities(), "Product and Quantity Array:")
	p.Print(t.UserTransactionCounts(), "User Transaction Count Array:")
	p.Print(t.MaskZeroQuantity(), "Masked Array (Quantity=0 hidden):")

	pct := decimal.NewFromFloat(r.cfg.PriceIncreasePercent)
	t.IncreasePrices(pct)
	r.logger.Debug("increased prices", zap.String("percent", pct.String()))
	p.Print(t, fmt.Sprintf("Transaction Data after %s%% Price Increase:", pct))

	p.Print(t.FilterByQuantity(r.cfg.MinQuantity),
		fmt.Sprintf("Filtered Transactions (Quantity > %d):", r.cfg.MinQuantity))

	now := r.clk.Now()
	first := transaction.Period{Start: now.Add(-4 * week), End: now.Add(-2 * week)}
	second := transaction.Period{Start: now.Add(-2 * week), End: now}
	rev1, rev2, err := t.CompareRevenue(first, second)
	if err != nil {
		return fmt.Errorf("compare revenue: %w", err)
	}
	p.Print(fmt.Sprintf("Period 1: %s, Period 2: %s", rev1.StringFixed(2), rev2.StringFixed(2)), "Revenue Comparison:")

	p.Print(t.SelectByUser(r.cfg.UserID).TransactionIDs,
		fmt.Sprintf("Transaction ids for User %d:", r.cfg.UserID))

	lastWeek, err := t.SelectByDateRange(now.Add(-week), now)
	if err != nil {
		return fmt.Errorf("last week: %w", err)
	}
	p.Print(lastWeek.TransactionIDs, "Date Range Sliced Data for the last week:")

	p.Print(t.TopProductsByRevenue(r.cfg.TopK), fmt.Sprintf("Top %d Products by Revenue:", r.cfg.TopK))

	if rows > 0 {
		summaries, err := t.DescribeAll()
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}
		p.Print(summaries, "Column Statistics:")
	}

	if got := len(t.ColumnTypes()); got != transaction.NumColumns {
		return fmt.Errorf("table has %d columns, want %d", got, transaction.NumColumns)
	}
	if t.Len() != rows {
		return fmt.Errorf("table has %d rows, want %d", t.Len(), rows)
	}

	r.logger.Info("report complete", zap.Int("rows", rows))
	return nil
}
