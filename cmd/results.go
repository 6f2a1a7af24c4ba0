package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fcbench/app/plugins"
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/infra/leaderboard"
)

var (
	queryTask   string
	queryModel  string
	queryRun    string
	querySince  time.Duration
	boardScorer string
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the run history",
	RunE:  runResults,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the best mean score of every estimator",
	RunE:  runLeaderboard,
}

func init() {
	resultsCmd.Flags().StringVar(&queryTask, "task", "", "validation id filter")
	resultsCmd.Flags().StringVar(&queryModel, "model", "", "model id filter")
	resultsCmd.Flags().StringVar(&queryRun, "run", "", "run id filter")
	resultsCmd.Flags().DurationVar(&querySince, "since", 0, "only runs newer than this duration")
	leaderboardCmd.Flags().StringVar(&queryTask, "task", "", "validation id filter")
	leaderboardCmd.Flags().StringVar(&boardScorer, "scorer", "MeanAbsoluteError", "scorer name")
	rootCmd.AddCommand(resultsCmd, leaderboardCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	factory, ok := plugins.Stores[cfg.Results.Backend]
	if !ok {
		return fmt.Errorf("results backend %q cannot be queried", cfg.Results.Backend)
	}
	store, err := factory(cfg.Results)
	if err != nil {
		return fmt.Errorf("results store: %w", err)
	}
	defer store.Close()

	q := results.Query{RunID: queryRun, TaskID: queryTask, EstimatorID: queryModel}
	if querySince > 0 {
		q.Start = time.Now().Add(-querySince)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Leaderboard.Path == "" {
		return fmt.Errorf("leaderboard.path is not configured")
	}
	board, err := leaderboard.NewSQLiteStore(cfg.Leaderboard.Path)
	if err != nil {
		return err
	}
	defer board.Close()
	entries, err := board.Standings(cmd.Context(), queryTask, boardScorer)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.6g\t%d runs\n", e.TaskID, e.EstimatorID, e.BestMean, e.Runs)
	}
	return nil
}
