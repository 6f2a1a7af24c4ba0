package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes benchmark events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordFold writes one benchmark_fold point with a field per scorer.
func (s *InfluxSink) RecordFold(ev coremetrics.FoldEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("benchmark_fold").
		AddTag("run_id", ev.RunID).
		AddTag("validation_id", ev.TaskID).
		AddTag("model_id", ev.EstimatorID).
		AddField("fold", ev.Fold).
		AddField("fit_ms", round3(ev.FitTime.Seconds()*1000)).
		AddField("predict_ms", round3(ev.PredictTime.Seconds()*1000))
	for name, v := range ev.Scores {
		if finite(v) {
			p = p.AddField(name, v)
		}
	}
	return s.writeAPI.WritePoint(ctx, p.SetTime(ev.Time))
}

// RecordResult writes one benchmark_result point per pair.
func (s *InfluxSink) RecordResult(ev coremetrics.ResultEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("benchmark_result").
		AddTag("run_id", ev.RunID).
		AddTag("validation_id", ev.TaskID).
		AddTag("model_id", ev.EstimatorID).
		AddField("folds", ev.Folds).
		AddField("runtime_secs", round3(ev.Runtime.Seconds())).
		AddField("failed", ev.Failed)
	for name, v := range ev.Means {
		if finite(v) {
			p = p.AddField(name+"_mean", v)
		}
	}
	for name, v := range ev.Stds {
		if finite(v) {
			p = p.AddField(name+"_std", v)
		}
	}
	return s.writeAPI.WritePoint(ctx, p.SetTime(ev.Time))
}

// RecordRunEnd writes a benchmark_run summary point.
func (s *InfluxSink) RecordRunEnd(runID string, rows int, elapsed time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("benchmark_run").
		AddTag("run_id", runID).
		AddField("rows", rows).
		AddField("elapsed_secs", round3(elapsed.Seconds())).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
