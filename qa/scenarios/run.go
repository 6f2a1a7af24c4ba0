package scenarios

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/fcbench/app/plugins"
	"github.com/kilianp07/fcbench/core/benchmark"
	"github.com/kilianp07/fcbench/core/dataset"
	"github.com/kilianp07/fcbench/core/report"
	"github.com/kilianp07/fcbench/core/scoring"
	"github.com/kilianp07/fcbench/infra/logger"
	"github.com/kilianp07/fcbench/infra/metrics"
)

const defaultTolerance = 1e-9

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(metrics.PromConfig{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	b := benchmark.New(
		benchmark.WithLogger(logger.NopLogger{}),
		benchmark.WithSink(sink),
		benchmark.WithContinueOnFailure(sc.ContinueOnFailure),
	)

	splitter, err := plugins.Splitters.Create(sc.Splitter.ToModule())
	if err != nil {
		t.Fatalf("splitter: %v", err)
	}
	scorers := make([]scoring.Scorer, len(sc.Scorers))
	for i, name := range sc.Scorers {
		if scorers[i], err = scoring.ByName(name); err != nil {
			t.Fatalf("scorer: %v", err)
		}
	}
	if _, err := b.AddTask(dataset.Static(sc.Name, sc.Series...), splitter, scorers...); err != nil {
		t.Fatalf("task: %v", err)
	}
	for _, def := range sc.Estimators {
		f, err := plugins.Forecasters.Create(def.ToModule())
		if err != nil {
			t.Fatalf("estimator %s: %v", def.Type, err)
		}
		if _, err := b.AddEstimator(f); err != nil {
			t.Fatalf("estimator %s: %v", def.Type, err)
		}
	}

	tbl, err := b.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("scenario %s: run: %v", sc.Name, err)
	}
	check(t, sc, tbl)

	if got, err := testutil.GatherAndCount(reg, "fcbench_pairs_total"); err != nil || got == 0 {
		t.Errorf("scenario %s: no pair metrics recorded (err=%v)", sc.Name, err)
	}
}

func check(t *testing.T, sc *Scenario, tbl *report.Table) {
	tol := sc.Expected.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	byModel := map[string]report.Row{}
	for _, row := range tbl.Rows {
		byModel[row.EstimatorID] = row
	}
	for model, means := range sc.Expected.Means {
		row, ok := byModel[model]
		if !ok {
			t.Errorf("scenario %s: missing row for %s", sc.Name, model)
			continue
		}
		for scorer, want := range means {
			got := row.Summary[scorer].Mean
			if math.Abs(got-want) > tol {
				t.Errorf("scenario %s: %s %s mean = %v, want %v", sc.Name, model, scorer, got, want)
			}
		}
	}
	for _, row := range tbl.Rows {
		wantFailed := slices.Contains(sc.Expected.Failed, row.EstimatorID)
		if failed := row.Err != ""; failed != wantFailed {
			t.Errorf("scenario %s: %s failed = %v, want %v", sc.Name, row.EstimatorID, failed, wantFailed)
		}
	}
}
