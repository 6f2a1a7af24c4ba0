package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/fcbench/core/benchmark"
	coremetrics "github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/internal/eventbus"
)

func TestPromSink_RecordFoldAndResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := sink.RecordFold(coremetrics.FoldEvent{
			TaskID:      "task-v1",
			EstimatorID: "NaiveForecaster-v1",
			Fold:        i,
			FitTime:     10 * time.Millisecond,
			PredictTime: time.Millisecond,
		}); err != nil {
			t.Fatalf("record fold: %v", err)
		}
	}
	if err := sink.RecordResult(coremetrics.ResultEvent{
		TaskID:      "task-v1",
		EstimatorID: "NaiveForecaster-v1",
		Means:       map[string]float64{"MeanAbsoluteError": 0.5},
		Runtime:     time.Second,
	}); err != nil {
		t.Fatalf("record result: %v", err)
	}

	expected := `
# HELP fcbench_folds_total Total number of evaluated folds
# TYPE fcbench_folds_total counter
fcbench_folds_total{model_id="NaiveForecaster-v1",validation_id="task-v1"} 2
`
	if err := testutil.CollectAndCompare(sink.folds, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	expectedMean := `
# HELP fcbench_score_mean Mean fold score of the last evaluation of a pair
# TYPE fcbench_score_mean gauge
fcbench_score_mean{model_id="NaiveForecaster-v1",scorer="MeanAbsoluteError",validation_id="task-v1"} 0.5
`
	if err := testutil.CollectAndCompare(sink.means, strings.NewReader(expectedMean)); err != nil {
		t.Errorf("unexpected mean metric: %v", err)
	}
	if c := testutil.CollectAndCount(sink.fitTime); c == 0 {
		t.Errorf("fit time not recorded")
	}
	if v := testutil.ToFloat64(sink.pairs.WithLabelValues("false")); v != 1 {
		t.Errorf("pairs counter = %v, want 1", v)
	}
}

func TestPromSink_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	if first.folds != second.folds {
		t.Errorf("expected the registered counter to be reused")
	}
}

func TestPromSink_PushOnRunEnd(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{PushURL: srv.URL, Job: "bench"}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRunEnd("r1", 3, 2*time.Second); err != nil {
		t.Fatalf("run end: %v", err)
	}
	if path != "/metrics/job/bench/run_id/r1" {
		t.Errorf("unexpected push path %q", path)
	}
	if v := testutil.ToFloat64(sink.rows); v != 3 {
		t.Errorf("rows gauge = %v, want 3", v)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordRunEnd("r1", 1, time.Second)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "fcbench_run_rows 1") {
		t.Errorf("metrics output missing run rows:\n%s", rec.Body.String())
	}
}

func TestStartEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg := prometheus.NewRegistry()
	bus := eventbus.NewTyped[benchmark.Event]()
	defer bus.Close()
	if err := StartEventCollector(ctx, bus, reg); err != nil {
		t.Fatalf("start collector: %v", err)
	}
	bus.Publish(benchmark.Event{Kind: benchmark.EventFoldCompleted})
	bus.Publish(benchmark.Event{Kind: benchmark.EventFoldCompleted})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mfs, err := reg.Gather()
		if err != nil {
			t.Fatalf("gather: %v", err)
		}
		for _, mf := range mfs {
			if mf.GetName() != "fcbench_events_total" {
				continue
			}
			for _, m := range mf.GetMetric() {
				if m.GetCounter().GetValue() == 2 {
					return
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("fold events not counted")
}
