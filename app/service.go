package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/fcbench/app/plugins"
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/benchmark"
	coremetrics "github.com/kilianp07/fcbench/core/metrics"
	coremon "github.com/kilianp07/fcbench/core/monitoring"
	coremqtt "github.com/kilianp07/fcbench/core/mqtt"
	"github.com/kilianp07/fcbench/core/report"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/core/scoring"
	"github.com/kilianp07/fcbench/infra/leaderboard"
	"github.com/kilianp07/fcbench/infra/logger"
	"github.com/kilianp07/fcbench/infra/metrics"
	"github.com/kilianp07/fcbench/infra/monitoring"
	"github.com/kilianp07/fcbench/infra/mqtt"
	"github.com/kilianp07/fcbench/internal/eventbus"
)

// Service wires a benchmark and its side channels from configuration.
type Service struct {
	Bench *benchmark.Benchmark

	cfg       *config.Config
	store     results.Store
	board     *leaderboard.SQLiteStore
	publisher coremqtt.Publisher
	bus       *eventbus.TypedBus[benchmark.Event]
	log       logger.Logger

	mu      sync.Mutex
	lastRun string
}

// New creates a Service from the configuration. Tasks and estimators are
// registered in configuration order.
func New(cfg *config.Config) (svc *Service, err error) {
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	svc = &Service{cfg: cfg, log: logg, bus: eventbus.NewTyped[benchmark.Event]()}
	defer func() {
		if err != nil {
			_ = svc.Close()
			svc = nil
		}
	}()

	if cfg.Results.Backend != config.BackendNone {
		factory, ok := plugins.Stores[cfg.Results.Backend]
		if !ok {
			return svc, fmt.Errorf("unknown results backend %q", cfg.Results.Backend)
		}
		if svc.store, err = factory(cfg.Results); err != nil {
			return svc, fmt.Errorf("results store: %w", err)
		}
	}
	if cfg.Leaderboard.Path != "" {
		if svc.board, err = leaderboard.NewSQLiteStore(cfg.Leaderboard.Path); err != nil {
			return svc, fmt.Errorf("leaderboard: %w", err)
		}
	}
	if cfg.MQTT.Broker != "" {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return svc, fmt.Errorf("mqtt client: %w", err)
		}
		svc.publisher = client
	}

	opts := []benchmark.Option{
		benchmark.WithLogger(logger.New("benchmark")),
		benchmark.WithSink(sink),
		benchmark.WithEventBus(svc.bus),
		benchmark.WithParallelism(cfg.Benchmark.Parallelism),
		benchmark.WithRunID(svc.newRunID),
		benchmark.WithContinueOnFailure(cfg.Benchmark.ContinueOnFailure),
	}
	if svc.store != nil {
		opts = append(opts, benchmark.WithStore(svc.store))
	}
	svc.Bench = benchmark.New(opts...)

	for i, tc := range cfg.Tasks {
		if err := svc.addTask(tc); err != nil {
			return svc, fmt.Errorf("tasks[%d]: %w", i, err)
		}
	}
	for i, ec := range cfg.Estimators {
		f, err := plugins.Forecasters.Create(ec.Module())
		if err != nil {
			return svc, fmt.Errorf("estimators[%d]: %w", i, err)
		}
		if _, err := svc.Bench.AddEstimatorWithID(f, ec.ID); err != nil {
			return svc, fmt.Errorf("estimators[%d]: %w", i, err)
		}
	}
	return svc, nil
}

func (s *Service) addTask(tc config.TaskConfig) error {
	loader, err := plugins.Loaders.Create(tc.Dataset)
	if err != nil {
		return err
	}
	splitter, err := plugins.Splitters.Create(tc.Splitter)
	if err != nil {
		return err
	}
	scorers := make([]scoring.Scorer, 0, len(tc.Scorers))
	for _, name := range tc.Scorers {
		sc, err := scoring.ByName(name)
		if err != nil {
			return err
		}
		scorers = append(scorers, sc)
	}
	_, err = s.Bench.AddTaskWithID(tc.ID, loader, splitter, scorers...)
	return err
}

func (s *Service) newRunID() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.lastRun = id
	s.mu.Unlock()
	return id
}

// LastRunID returns the identifier of the most recent run.
func (s *Service) LastRunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Store returns the run history store, nil when disabled.
func (s *Service) Store() results.Store { return s.store }

// Leaderboard returns the leaderboard store, nil when disabled.
func (s *Service) Leaderboard() *leaderboard.SQLiteStore { return s.board }

// Run executes the benchmark and forwards its table to the leaderboard and
// the MQTT broker. Side channel failures are logged and do not fail the
// run.
func (s *Service) Run(ctx context.Context, output string) (*report.Table, error) {
	if s.cfg.Metrics.PrometheusAddr != "" || s.hasSink("prometheus") {
		if err := metrics.StartEventCollector(ctx, s.bus, prometheus.DefaultRegisterer); err != nil {
			s.log.Warnf("event collector: %v", err)
		}
	}
	if s.cfg.Metrics.PrometheusAddr != "" {
		srv := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, prometheus.DefaultGatherer)
		defer srv.Close()
	}

	tbl, err := s.Bench.Run(ctx, output)
	if tbl == nil {
		return nil, err
	}
	runID := s.LastRunID()
	if s.board != nil {
		if lerr := s.board.Update(ctx, tbl, time.Now()); lerr != nil {
			s.log.Errorf("leaderboard update: %v", lerr)
		}
	}
	if s.publisher != nil {
		if perr := s.publisher.PublishRows(runID, tbl); perr != nil {
			s.log.Errorf("mqtt publish: %v", perr)
		}
	}
	return tbl, err
}

func (s *Service) hasSink(kind string) bool {
	for _, c := range s.cfg.Metrics.Sinks {
		if c.Type == kind {
			return true
		}
	}
	return false
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if s.board != nil {
		errs = append(errs, s.board.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.bus != nil {
		s.bus.Close()
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
