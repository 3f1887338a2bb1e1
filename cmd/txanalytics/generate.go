package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/txanalytics/internal/store"
)

func newGenerateCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic transaction dataset and save it",
		Long: `Generate writes a synthetic transaction table to --out. The format follows
the extension: .csv, .txt/.tsv (tab separated) or .arrow (Arrow IPC stream).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.generate(cmd)
			if err != nil {
				return err
			}
			meta := store.NewMetadata(a.clk.Now())
			if err := a.store.Save(out, t, meta); err != nil {
				return err
			}
			a.logger.Info("dataset saved",
				zap.String("path", out),
				zap.Int("rows", t.Len()),
				zap.String("dataset_id", meta.DatasetID),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", t.Len(), out)
			return nil
		},
	}

	cmd.Flags().Int("count", 20, "number of transactions (overrides generator.count)")
	cmd.Flags().Uint64("seed", 0, "random seed, 0 for time based (overrides generator.seed)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
