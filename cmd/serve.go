package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	apiresults "github.com/kilianp07/fcbench/api/results"
	"github.com/kilianp07/fcbench/app/plugins"
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/infra/leaderboard"
	"github.com/kilianp07/fcbench/infra/logger"
	"github.com/kilianp07/fcbench/infra/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history, leaderboard and metrics over HTTP",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("server")
	factory, ok := plugins.Stores[cfg.Results.Backend]
	if !ok {
		return fmt.Errorf("results backend %q cannot be served", cfg.Results.Backend)
	}
	store, err := factory(cfg.Results)
	if err != nil {
		return fmt.Errorf("results store: %w", err)
	}
	defer store.Close()

	mux := http.NewServeMux()
	mux.Handle("/api/results", apiresults.NewRunsHandler(store, cfg.Server.Token))
	if cfg.Leaderboard.Path != "" {
		board, err := leaderboard.NewSQLiteStore(cfg.Leaderboard.Path)
		if err != nil {
			return err
		}
		defer board.Close()
		mux.Handle("/api/leaderboard", apiresults.NewLeaderboardHandler(board, cfg.Server.Token))
	}
	mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
