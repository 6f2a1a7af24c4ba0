// Package benchmark runs forecasters over the cross-validation folds of
// registered tasks and assembles the scores into a report table.
//
// A Benchmark holds two registries: tasks (data loader, splitter, scorers)
// and estimators. Run visits every (task, estimator) pair in registration
// order, fits a fresh clone of the estimator on each fold, scores the
// forecast and aggregates the folds into one report row per pair:
//
//	b := benchmark.New()
//	_, _ = b.AddEstimator(prediction.NewNaiveForecaster(prediction.StrategyLast))
//	s, _ := split.NewExpandingWindowSplitter(1, 1, 1)
//	_, _ = b.AddTask(dataset.Static("data_loader_simple", 2, 2, 3), s, scoring.MeanSquaredPercentageError())
//	tbl, err := b.Run(ctx, "results.csv")
//
// Configuration problems are reported by the Add methods before any work
// starts. A failing fold aborts the run with an *ExecutionError unless
// WithContinueOnFailure is set, in which case the pair is recorded as a
// failed row. Failing to write the output file returns the computed table
// together with an *IOError.
package benchmark
