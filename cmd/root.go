package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fcbench/app"
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/infra/logger"
)

var (
	cfgPath    string
	outputPath string
	noOutput   bool
)

var rootCmd = &cobra.Command{
	Use:          "fcbench",
	Short:        "Forecasting benchmark harness",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every registered estimator on every task",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report file (.csv or .json), overrides benchmark.output")
	runCmd.Flags().BoolVar(&noOutput, "no-output", false, "do not write a report file")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	out := cfg.Benchmark.Output
	if outputPath != "" {
		out = outputPath
	}
	if noOutput {
		out = ""
	}
	tbl, err := svc.Run(ctx, out)
	if tbl != nil {
		printSummary(cmd, svc.LastRunID(), tbl)
	}
	return err
}
