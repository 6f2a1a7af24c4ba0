package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/fcbench/core/metrics"
)

// PromConfig configures the Prometheus sink.
type PromConfig struct {
	// PushURL sends the registry to a Pushgateway at the end of every run
	// when non-empty.
	PushURL string `json:"push_url"`
	Job     string `json:"job"`
}

// PromSink records benchmark results in Prometheus metrics.
type PromSink struct {
	folds    *prometheus.CounterVec
	fitTime  *prometheus.HistogramVec
	predTime *prometheus.HistogramVec
	pairs    *prometheus.CounterVec
	means    *prometheus.GaugeVec
	runtime  *prometheus.GaugeVec
	lastRun  prometheus.Gauge
	rows     prometheus.Gauge

	gatherer prometheus.Gatherer
	cfg      PromConfig
}

// NewPromSink registers benchmark metrics on the default Prometheus
// registerer. The /metrics endpoint is served separately, see StartPromServer.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if cfg.Job == "" {
		cfg.Job = "fcbench"
	}
	s := &PromSink{cfg: cfg}
	if g, ok := reg.(prometheus.Gatherer); ok {
		s.gatherer = g
	}

	folds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fcbench_folds_total",
		Help: "Total number of evaluated folds",
	}, []string{"validation_id", "model_id"})
	fitTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fcbench_fold_fit_seconds",
		Help:    "Time spent fitting a forecaster on one fold",
		Buckets: prometheus.DefBuckets,
	}, []string{"model_id"})
	predTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fcbench_fold_predict_seconds",
		Help:    "Time spent forecasting one fold",
		Buckets: prometheus.DefBuckets,
	}, []string{"model_id"})
	pairs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fcbench_pairs_total",
		Help: "Total number of evaluated task/estimator pairs",
	}, []string{"failed"})
	means := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fcbench_score_mean",
		Help: "Mean fold score of the last evaluation of a pair",
	}, []string{"validation_id", "model_id", "scorer"})
	runtime := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fcbench_pair_runtime_seconds",
		Help: "Wall clock time of the last evaluation of a pair",
	}, []string{"validation_id", "model_id"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fcbench_run_duration_seconds",
		Help: "Duration of the last benchmark run",
	})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fcbench_run_rows",
		Help: "Number of report rows produced by the last run",
	})

	var err error
	if s.folds, err = register(reg, folds); err != nil {
		return nil, err
	}
	if s.fitTime, err = register(reg, fitTime); err != nil {
		return nil, err
	}
	if s.predTime, err = register(reg, predTime); err != nil {
		return nil, err
	}
	if s.pairs, err = register(reg, pairs); err != nil {
		return nil, err
	}
	if s.means, err = register(reg, means); err != nil {
		return nil, err
	}
	if s.runtime, err = register(reg, runtime); err != nil {
		return nil, err
	}
	if s.lastRun, err = register(reg, lastRun); err != nil {
		return nil, err
	}
	if s.rows, err = register(reg, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector registered by an
// earlier sink.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordFold counts the fold and observes fit and predict durations.
func (s *PromSink) RecordFold(ev coremetrics.FoldEvent) error {
	s.folds.WithLabelValues(ev.TaskID, ev.EstimatorID).Inc()
	s.fitTime.WithLabelValues(ev.EstimatorID).Observe(ev.FitTime.Seconds())
	s.predTime.WithLabelValues(ev.EstimatorID).Observe(ev.PredictTime.Seconds())
	return nil
}

// RecordResult sets the mean score gauges of a pair.
func (s *PromSink) RecordResult(ev coremetrics.ResultEvent) error {
	s.pairs.WithLabelValues(strconv.FormatBool(ev.Failed)).Inc()
	s.runtime.WithLabelValues(ev.TaskID, ev.EstimatorID).Set(ev.Runtime.Seconds())
	for scorer, v := range ev.Means {
		s.means.WithLabelValues(ev.TaskID, ev.EstimatorID, scorer).Set(v)
	}
	return nil
}

// RecordRunEnd records the run duration and pushes the registry when a
// Pushgateway is configured.
func (s *PromSink) RecordRunEnd(runID string, rows int, elapsed time.Duration) error {
	s.lastRun.Set(elapsed.Seconds())
	s.rows.Set(float64(rows))
	if s.cfg.PushURL == "" || s.gatherer == nil {
		return nil
	}
	return push.New(s.cfg.PushURL, s.cfg.Job).
		Gatherer(s.gatherer).
		Grouping("run_id", runID).
		Push()
}
