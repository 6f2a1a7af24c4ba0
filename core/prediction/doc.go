// Package prediction defines the Forecaster contract used by the benchmark
// and ships reference forecasters. Forecasters are prototypes: the
// benchmark fits a Clone for every fold so fitted state never leaks
// between folds or tasks.
package prediction
