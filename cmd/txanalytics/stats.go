package main

import (
	"github.com/spf13/cobra"

	"github.com/example/txanalytics/internal/display"
	"github.com/example/txanalytics/pkg/transaction"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		in     string
		column string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print sum, mean, median and standard deviation of numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.store.Load(in)
			if err != nil {
				return err
			}
			p := display.NewPrinter(cmd.OutOrStdout())

			if column == "" {
				summaries, err := t.DescribeAll()
				if err != nil {
					return err
				}
				p.Print(summaries, "Column Statistics:")
				return nil
			}

			col, err := transaction.ParseColumn(column)
			if err != nil {
				return err
			}
			s, err := t.Describe(col)
			if err != nil {
				return err
			}
			p.Print(s, "Column Statistics:")
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "dataset file")
	cmd.Flags().StringVar(&column, "column", "", "single column to describe")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
