package metrics

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fcbench/core/metrics"
)

func captureServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, strings.TrimSpace(string(data)))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestInfluxSink_RecordFold(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	now := time.Now()
	ev := coremetrics.FoldEvent{
		RunID:       "r1",
		TaskID:      "task-v1",
		EstimatorID: "NaiveForecaster-v1",
		Fold:        1,
		Scores:      map[string]float64{"MeanAbsoluteError": 1},
		FitTime:     2 * time.Millisecond,
		PredictTime: time.Millisecond,
		Time:        now,
	}
	if err := sink.RecordFold(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("benchmark_fold").
		AddTag("run_id", "r1").
		AddTag("validation_id", "task-v1").
		AddTag("model_id", "NaiveForecaster-v1").
		AddField("fold", 1).
		AddField("fit_ms", 2.0).
		AddField("predict_ms", 1.0).
		AddField("MeanAbsoluteError", 1.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(*bodies) != 1 || (*bodies)[0] != expected {
		t.Errorf("unexpected bodies: %#v", *bodies)
	}
}

func TestInfluxSink_RecordResultSkipsNaN(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	now := time.Now()
	ev := coremetrics.ResultEvent{
		RunID:       "r1",
		TaskID:      "task-v1",
		EstimatorID: "NaiveForecaster-v1",
		Means:       map[string]float64{"MeanAbsoluteError": 0.5},
		Stds:        map[string]float64{"MeanAbsoluteError": math.NaN()},
		Folds:       1,
		Runtime:     1500 * time.Millisecond,
		Time:        now,
	}
	if err := sink.RecordResult(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("benchmark_result").
		AddTag("run_id", "r1").
		AddTag("validation_id", "task-v1").
		AddTag("model_id", "NaiveForecaster-v1").
		AddField("folds", 1).
		AddField("runtime_secs", 1.5).
		AddField("failed", false).
		AddField("MeanAbsoluteError_mean", 0.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(*bodies) != 1 || (*bodies)[0] != expected {
		t.Errorf("unexpected bodies: %#v", *bodies)
	}
}

func TestInfluxSink_RecordRunEnd(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	if err := sink.RecordRunEnd("r1", 4, time.Second); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(*bodies) != 1 || !strings.HasPrefix((*bodies)[0], "benchmark_run,run_id=r1 rows=4i,elapsed_secs=1 ") {
		t.Errorf("unexpected bodies: %#v", *bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{
		URL:    srv.URL + "/api/v2/write",
		Token:  "tok",
		Org:    "org",
		Bucket: "bucket",
	})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
