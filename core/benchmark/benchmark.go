package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/fcbench/core/dataset"
	"github.com/kilianp07/fcbench/core/identity"
	"github.com/kilianp07/fcbench/core/logger"
	"github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/core/monitoring"
	"github.com/kilianp07/fcbench/core/prediction"
	"github.com/kilianp07/fcbench/core/registry"
	"github.com/kilianp07/fcbench/core/report"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/core/scoring"
	"github.com/kilianp07/fcbench/core/series"
	"github.com/kilianp07/fcbench/core/split"
	"github.com/kilianp07/fcbench/internal/eventbus"
)

// Task is a validation setup: a dataset, the cross-validation
// splitter applied to it and the scorers evaluated on every fold.
type Task struct {
	Loader   dataset.Loader
	Splitter split.Splitter
	Scorers  []scoring.Scorer
}

// TypeTag is the base of synthesized task identifiers.
func (t Task) TypeTag() string {
	return fmt.Sprintf("[dataset=%s]_[cv_splitter=%s]", t.Loader.Name(), t.Splitter.Name())
}

func (t Task) scorerNames() []string {
	names := make([]string, len(t.Scorers))
	for i, s := range t.Scorers {
		names[i] = s.Name()
	}
	return names
}

// Benchmark registers tasks and estimators and evaluates every pair.
type Benchmark struct {
	tasks      *registry.Registry[Task]
	estimators *registry.Registry[prediction.Forecaster]

	naming            identity.NamingStrategy
	log               logger.Logger
	sink              metrics.MetricsSink
	store             results.Store
	bus               *eventbus.TypedBus[Event]
	continueOnFailure bool
	parallelism       int
	write             func(path string, tbl *report.Table) error
	newRunID          func() string
}

// New returns an empty benchmark.
func New(opts ...Option) *Benchmark {
	b := &Benchmark{
		tasks:      registry.New[Task](),
		estimators: registry.New[prediction.Forecaster](),
	}
	defaults(b)
	for _, o := range opts {
		o(b)
	}
	return b
}

// AddTask registers a task under a synthesized identifier and returns it.
func (b *Benchmark) AddTask(loader dataset.Loader, splitter split.Splitter, scorers ...scoring.Scorer) (string, error) {
	return b.AddTaskWithID("", loader, splitter, scorers...)
}

// AddTaskWithID registers a task under id. An empty id is synthesized as
// "[dataset=<name>]_[cv_splitter=<name>]-v<n>".
func (b *Benchmark) AddTaskWithID(id string, loader dataset.Loader, splitter split.Splitter, scorers ...scoring.Scorer) (string, error) {
	t := Task{Loader: loader, Splitter: splitter, Scorers: append([]scoring.Scorer(nil), scorers...)}
	if err := validateTask(t); err != nil {
		return "", configErr("add task", err)
	}
	r := &identity.Resolver[Task]{Naming: b.naming, Taken: b.tasks.Has}
	entries, err := r.One(t, id)
	if err != nil {
		return "", configErr("add task", err)
	}
	if err := b.tasks.AddAll(entries); err != nil {
		return "", configErr("add task", err)
	}
	b.log.Debugw("task registered", map[string]any{"validation_id": entries[0].ID})
	return entries[0].ID, nil
}

func validateTask(t Task) error {
	if t.Loader == nil {
		return errors.New("nil data loader")
	}
	if t.Splitter == nil {
		return errors.New("nil cv splitter")
	}
	if len(t.Scorers) == 0 {
		return errors.New("at least one scorer is required")
	}
	seen := make(map[string]bool, len(t.Scorers))
	for _, s := range t.Scorers {
		if s == nil {
			return errors.New("nil scorer")
		}
		if seen[s.Name()] {
			return fmt.Errorf("scorer %s listed twice", s.Name())
		}
		seen[s.Name()] = true
	}
	return nil
}

// AddEstimator registers f under a synthesized identifier.
func (b *Benchmark) AddEstimator(f prediction.Forecaster) (string, error) {
	return b.AddEstimatorWithID(f, "")
}

// AddEstimatorWithID registers f under id, which must follow the
// "<name>-v<int>" format. An empty id is synthesized from f's type tag.
func (b *Benchmark) AddEstimatorWithID(f prediction.Forecaster, id string) (string, error) {
	if f == nil {
		return "", configErr("add estimator", errors.New("nil estimator"))
	}
	entries, err := b.estimatorResolver().One(f, id)
	if err != nil {
		return "", configErr("add estimator", err)
	}
	if err := b.estimators.AddAll(entries); err != nil {
		return "", configErr("add estimator", err)
	}
	return entries[0].ID, nil
}

// AddEstimators registers every forecaster with synthesized identifiers.
// Forecasters sharing a type tag get increasing version numbers.
func (b *Benchmark) AddEstimators(fs []prediction.Forecaster) ([]string, error) {
	for _, f := range fs {
		if f == nil {
			return nil, configErr("add estimators", errors.New("nil estimator"))
		}
	}
	return b.addEntries("add estimators", b.estimatorResolver().List(fs))
}

// AddEstimatorMap registers the forecasters under their map keys, in key
// order.
func (b *Benchmark) AddEstimatorMap(m map[string]prediction.Forecaster) ([]string, error) {
	for id, f := range m {
		if f == nil {
			return nil, configErr("add estimators", fmt.Errorf("nil estimator %s", id))
		}
	}
	entries, err := b.estimatorResolver().Map(m)
	if err != nil {
		return nil, configErr("add estimators", err)
	}
	return b.addEntries("add estimators", entries)
}

func (b *Benchmark) addEntries(op string, entries []identity.Entry[prediction.Forecaster]) ([]string, error) {
	if err := b.estimators.AddAll(entries); err != nil {
		return nil, configErr(op, err)
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}

func (b *Benchmark) estimatorResolver() *identity.Resolver[prediction.Forecaster] {
	return &identity.Resolver[prediction.Forecaster]{Naming: b.naming, Taken: b.estimators.Has}
}

// Tasks returns the registered task ids in registration order.
func (b *Benchmark) Tasks() []string { return b.tasks.IDs() }

// Estimators returns the registered estimator ids in registration order.
func (b *Benchmark) Estimators() []string { return b.estimators.IDs() }

type pair struct {
	task identity.Entry[Task]
	est  identity.Entry[prediction.Forecaster]
}

// Run evaluates every (task, estimator) pair, tasks in the outer loop, and
// writes the resulting table to outputPath. An empty path skips the write.
func (b *Benchmark) Run(ctx context.Context, outputPath string) (*report.Table, error) {
	if b.tasks.Len() == 0 {
		return nil, configErr("run", errors.New("no task registered"))
	}
	if b.estimators.Len() == 0 {
		return nil, configErr("run", errors.New("no estimator registered"))
	}

	var pairs []pair
	for _, t := range b.tasks.Entries() {
		for _, e := range b.estimators.Entries() {
			pairs = append(pairs, pair{task: t, est: e})
		}
	}

	runID := b.newRunID()
	start := time.Now()
	b.publish(Event{Kind: EventRunStarted, RunID: runID, Pairs: len(pairs), Fold: -1})
	b.log.Infow("benchmark started", map[string]any{
		"run_id":     runID,
		"tasks":      b.tasks.Len(),
		"estimators": b.estimators.Len(),
	})

	rows := make([]report.Row, len(pairs))
	errs := make([]error, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := b.evaluate(gctx, runID, p)
			if err != nil {
				if !b.continueOnFailure || !isExecution(err) || gctx.Err() != nil {
					errs[i] = err
					return err
				}
				b.log.Warnf("pair %s / %s failed: %v", p.task.ID, p.est.ID, err)
				row = report.Failed(p.task.ID, p.est.ID, row.Runtime, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
		} else {
			err = firstFailure(errs, err)
		}
		b.log.Errorf("benchmark %s aborted: %v", runID, err)
		return nil, err
	}

	tbl := &report.Table{Rows: rows}
	elapsed := time.Since(start)
	if rr, ok := b.sink.(metrics.RunRecorder); ok {
		if err := rr.RecordRunEnd(runID, len(rows), elapsed); err != nil {
			b.log.Warnf("metrics: record run end: %v", err)
		}
	}
	b.appendHistory(ctx, runID, outputPath, tbl)
	b.publish(Event{Kind: EventRunCompleted, RunID: runID, Pairs: len(rows), Fold: -1})
	b.log.Infow("benchmark completed", map[string]any{
		"run_id":  runID,
		"rows":    len(rows),
		"failed":  len(tbl.Failed()),
		"elapsed": elapsed.String(),
	})

	if outputPath == "" {
		return tbl, nil
	}
	if err := b.write(outputPath, tbl); err != nil {
		return tbl, &IOError{Path: outputPath, Err: err}
	}
	return tbl, nil
}

// firstFailure returns the failure of the earliest pair in registration
// order. Pairs interrupted by the cancellation of the run are skipped, so
// with parallel evaluation the reported error does not depend on
// completion order.
func firstFailure(errs []error, fallback error) error {
	for _, err := range errs {
		if err != nil && !isCancellation(err) {
			return err
		}
	}
	return fallback
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// evaluate runs the fold loop of one pair. On failure the returned row
// carries the elapsed runtime.
func (b *Benchmark) evaluate(ctx context.Context, runID string, p pair) (report.Row, error) {
	start := time.Now()
	fail := func(fold int, stage string, err error) (report.Row, error) {
		row := report.Row{TaskID: p.task.ID, EstimatorID: p.est.ID, Runtime: time.Since(start)}
		if isCancellation(err) {
			return row, err
		}
		ee := &ExecutionError{TaskID: p.task.ID, EstimatorID: p.est.ID, Fold: fold, Stage: stage, Err: err}
		if ctx.Err() != nil {
			// The run is already aborting; only the first failure is reported.
			return row, ee
		}
		monitoring.CaptureException(ee, ee.Tags())
		b.publish(Event{Kind: EventPairFailed, RunID: runID, TaskID: p.task.ID, EstimatorID: p.est.ID, Fold: fold, Err: ee})
		b.recordResult(metrics.ResultEvent{RunID: runID, TaskID: p.task.ID, EstimatorID: p.est.ID, Runtime: row.Runtime, Failed: true})
		return row, ee
	}

	task := p.task.Value
	y, err := task.Loader.Load(ctx)
	if err != nil {
		return fail(-1, StageLoad, err)
	}
	folds, err := task.Splitter.Split(y.Len())
	if err != nil {
		return fail(-1, StageSplit, err)
	}

	names := task.scorerNames()
	done := make([]report.FoldResult, 0, len(folds))
	for i, f := range folds {
		if err := ctx.Err(); err != nil {
			return report.Row{}, err
		}
		res, fitTime, predTime, stage, err := b.fold(p.est.Value, task.Scorers, y, i, f)
		if err != nil {
			return fail(i, stage, err)
		}
		done = append(done, res)
		if fr, ok := b.sink.(metrics.FoldRecorder); ok {
			if err := fr.RecordFold(metrics.FoldEvent{
				RunID:       runID,
				TaskID:      p.task.ID,
				EstimatorID: p.est.ID,
				Fold:        i,
				Scores:      res.Scores,
				FitTime:     fitTime,
				PredictTime: predTime,
				Time:        time.Now(),
			}); err != nil {
				b.log.Warnf("metrics: record fold: %v", err)
			}
		}
		b.publish(Event{Kind: EventFoldCompleted, RunID: runID, TaskID: p.task.ID, EstimatorID: p.est.ID, Fold: i, Scores: res.Scores})
	}

	row := report.Aggregate(p.task.ID, p.est.ID, names, done, time.Since(start))
	ev := metrics.ResultEvent{
		RunID:       runID,
		TaskID:      row.TaskID,
		EstimatorID: row.EstimatorID,
		Means:       make(map[string]float64, len(names)),
		Stds:        make(map[string]float64, len(names)),
		Folds:       len(done),
		Runtime:     row.Runtime,
	}
	for _, n := range names {
		ev.Means[n] = row.Summary[n].Mean
		ev.Stds[n] = row.Summary[n].Std
	}
	b.recordResult(ev)
	b.publish(Event{Kind: EventPairCompleted, RunID: runID, TaskID: row.TaskID, EstimatorID: row.EstimatorID, Fold: -1})
	b.log.Debugw("pair evaluated", map[string]any{
		"validation_id": row.TaskID,
		"model_id":      row.EstimatorID,
		"folds":         len(done),
		"runtime_secs":  row.Runtime.Seconds(),
	})
	return row, nil
}

// fold fits a fresh clone of proto on the training window and scores the
// forecast of the test positions.
func (b *Benchmark) fold(proto prediction.Forecaster, scorers []scoring.Scorer, y series.Series, i int, f split.Fold) (report.FoldResult, time.Duration, time.Duration, string, error) {
	res := report.FoldResult{Index: i}
	if len(f.Train) == 0 {
		return res, 0, 0, StageSplit, errors.New("empty training window")
	}
	train, err := y.Take(f.Train)
	if err != nil {
		return res, 0, 0, StageSplit, err
	}
	test, err := y.Take(f.Test)
	if err != nil {
		return res, 0, 0, StageSplit, err
	}
	// Forecasters resolve horizon steps against the last training label.
	last := train.Index[len(train.Index)-1]
	fh := make([]int, len(test.Index))
	for j, label := range test.Index {
		if label <= last {
			return res, 0, 0, StageSplit, fmt.Errorf("test label %d does not follow training label %d", label, last)
		}
		fh[j] = label - last
	}

	est := proto.Clone()
	t0 := time.Now()
	if err := est.Fit(train); err != nil {
		return res, 0, 0, StageFit, err
	}
	fitTime := time.Since(t0)
	t1 := time.Now()
	pred, err := est.Predict(fh)
	if err != nil {
		return res, fitTime, 0, StagePredict, err
	}
	predTime := time.Since(t1)

	res.Train, res.Test, res.Pred = train, test, pred
	res.Scores = make(map[string]float64, len(scorers))
	for _, s := range scorers {
		v, err := s.Score(test, pred)
		if err != nil {
			return res, fitTime, predTime, StageScore, err
		}
		res.Scores[s.Name()] = v
	}
	return res, fitTime, predTime, "", nil
}

func (b *Benchmark) recordResult(ev metrics.ResultEvent) {
	ev.Time = time.Now()
	if err := b.sink.RecordResult(ev); err != nil {
		b.log.Warnf("metrics: record result: %v", err)
	}
}

func (b *Benchmark) publish(ev Event) {
	if b.bus == nil {
		return
	}
	ev.Time = time.Now()
	b.bus.Publish(ev)
}

func (b *Benchmark) appendHistory(ctx context.Context, runID, output string, tbl *report.Table) {
	if b.store == nil {
		return
	}
	rec := results.NewRunRecord(runID, time.Now().UTC(), output, tbl)
	if err := b.store.Append(ctx, rec); err != nil {
		b.log.Errorf("results: append run %s: %v", runID, err)
	}
}
