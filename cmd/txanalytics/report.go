package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/txanalytics/internal/display"
	"github.com/example/txanalytics/internal/report"
	"github.com/example/txanalytics/internal/store"
	"github.com/example/txanalytics/pkg/transaction"
)

func newReportCmd(a *app) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every analysis step over a dataset and print the results",
		Long: `Report loads --in, or generates a fresh dataset when --in is not given,
then prints revenue, user, product, masking, filtering and date range results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   *transaction.Table
				err error
			)
			if in != "" {
				var meta store.Metadata
				t, meta, err = a.store.Load(in)
				if err == nil && meta.DatasetID != "" {
					a.logger.Info("loaded snapshot", zap.String("dataset_id", meta.DatasetID))
				}
			} else {
				t, err = a.generate(cmd)
			}
			if err != nil {
				return err
			}

			r := report.NewRunner(a.cfg.Report, display.NewPrinter(cmd.OutOrStdout()), a.clk, a.logger)
			return r.Run(t)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "dataset file to load instead of generating")
	cmd.Flags().Int("count", 20, "number of transactions to generate (overrides generator.count)")
	cmd.Flags().Uint64("seed", 0, "random seed, 0 for time based (overrides generator.seed)")
	return cmd
}
