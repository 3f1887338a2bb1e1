package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/txanalytics/internal/clock"
	"github.com/example/txanalytics/internal/config"
	"github.com/example/txanalytics/internal/store"
	"github.com/example/txanalytics/pkg/transaction"
)

const version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	clk    clock.Clock
	store  *store.Store
}

func newRootCmd() *cobra.Command {
	a := &app{clk: clock.NewRealClock()}

	cmd := &cobra.Command{
		Use:   "txanalytics",
		Short: "Generate and analyze synthetic e-commerce transactions",
		Long: `Transaction Analytics generates a synthetic e-commerce transaction dataset,
saves it as CSV, tab-separated text or Arrow snapshots, and runs revenue, user
and product queries over it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction Analytics v%s\n", version)
			fmt.Fprintln(cmd.OutOrStdout(), "Use --help for available commands")
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a TOML config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(a),
		newReportCmd(a),
		newStatsCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.logger = logger
	a.store = store.NewOS(logger)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// generate builds a table from the generator config, honouring flag overrides.
func (a *app) generate(cmd *cobra.Command) (*transaction.Table, error) {
	gen := a.cfg.Generator
	if cmd.Flags().Changed("count") {
		gen.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("seed") {
		gen.Seed, _ = cmd.Flags().GetUint64("seed")
	}

	seed := gen.Seed
	if seed == 0 {
		seed = uint64(a.clk.Now().UnixNano())
	}
	a.logger.Debug("generating transactions", zap.Int("count", gen.Count), zap.Uint64("seed", seed))

	g := transaction.NewGenerator(transaction.NewRand(seed), gen.Options(), a.clk)
	return g.Generate(gen.Count)
}
