package metrics

import "time"

// FoldEvent describes one evaluated fold.
type FoldEvent struct {
	RunID       string
	TaskID      string
	EstimatorID string
	Fold        int
	Scores      map[string]float64
	FitTime     time.Duration
	PredictTime time.Duration
	Time        time.Time
}

// ResultEvent describes one completed (task, estimator) pair.
type ResultEvent struct {
	RunID       string
	TaskID      string
	EstimatorID string
	Means       map[string]float64
	Stds        map[string]float64
	Folds       int
	Runtime     time.Duration
	Failed      bool
	Time        time.Time
}

// MetricsSink records benchmark results.
type MetricsSink interface {
	RecordResult(ev ResultEvent) error
}

// FoldRecorder is implemented by sinks able to record single folds.
type FoldRecorder interface {
	RecordFold(ev FoldEvent) error
}

// RunRecorder is implemented by sinks that want to know when a run ends,
// e.g. to push or flush buffered metrics.
type RunRecorder interface {
	RecordRunEnd(runID string, rows int, elapsed time.Duration) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordResult(ResultEvent) error                { return nil }
func (NopSink) RecordFold(FoldEvent) error                    { return nil }
func (NopSink) RecordRunEnd(string, int, time.Duration) error { return nil }
