// Package report aggregates per-fold scores into result rows and assembles
// rows into the benchmark report table.
//
// Every row exposes its cells as a sparse record: a column absent from a row
// reads as CellMissing, never as an implicit zero. Column names follow
//
//	validation_id, model_id,
//	<Scorer>_fold_<i>_test, y_train_fold_<i>, y_test_fold_<i>, y_pred_fold_<i>, ...
//	<Scorer>_mean, <Scorer>_std, ...
//	runtime_secs[, error]
package report
