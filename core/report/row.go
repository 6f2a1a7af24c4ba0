package report

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fcbench/core/series"
)

// Fixed column names.
const (
	ColValidationID = "validation_id"
	ColModelID      = "model_id"
	ColRuntime      = "runtime_secs"
	ColError        = "error"
)

// FoldColumn names the score of scorer on fold i.
func FoldColumn(scorer string, i int) string { return fmt.Sprintf("%s_fold_%d_test", scorer, i) }

// MeanColumn names the mean score column of scorer.
func MeanColumn(scorer string) string { return scorer + "_mean" }

// StdColumn names the standard deviation column of scorer.
func StdColumn(scorer string) string { return scorer + "_std" }

// TrainColumn names the training snapshot of fold i.
func TrainColumn(i int) string { return fmt.Sprintf("y_train_fold_%d", i) }

// TestColumn names the test snapshot of fold i.
func TestColumn(i int) string { return fmt.Sprintf("y_test_fold_%d", i) }

// PredColumn names the prediction snapshot of fold i.
func PredColumn(i int) string { return fmt.Sprintf("y_pred_fold_%d", i) }

// FoldResult holds the outcome of one fold.
type FoldResult struct {
	Index  int                `json:"index"`
	Train  series.Series      `json:"train"`
	Test   series.Series      `json:"test"`
	Pred   series.Series      `json:"pred"`
	Scores map[string]float64 `json:"scores"`
}

// Summary holds the fold statistics of one scorer.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Row is the result of one (task, estimator) pair. Rows are not modified
// after Aggregate or Failed returns them.
type Row struct {
	TaskID      string             `json:"validation_id"`
	EstimatorID string             `json:"model_id"`
	Scorers     []string           `json:"scorers"`
	Folds       []FoldResult       `json:"folds"`
	Summary     map[string]Summary `json:"summary"`
	Runtime     time.Duration      `json:"runtime"`
	Err         string             `json:"error,omitempty"`
}

// Aggregate builds a row from fold results. Fold snapshots are copied.
// The std of a scorer is the sample standard deviation (N-1) and is NaN
// with fewer than two folds.
func Aggregate(taskID, estimatorID string, scorers []string, folds []FoldResult, runtime time.Duration) Row {
	row := Row{
		TaskID:      taskID,
		EstimatorID: estimatorID,
		Scorers:     append([]string(nil), scorers...),
		Folds:       make([]FoldResult, len(folds)),
		Summary:     make(map[string]Summary, len(scorers)),
		Runtime:     runtime,
	}
	for i, f := range folds {
		scores := make(map[string]float64, len(f.Scores))
		for k, v := range f.Scores {
			scores[k] = v
		}
		row.Folds[i] = FoldResult{
			Index:  f.Index,
			Train:  f.Train.Clone(),
			Test:   f.Test.Clone(),
			Pred:   f.Pred.Clone(),
			Scores: scores,
		}
	}
	for _, s := range scorers {
		vals := make([]float64, 0, len(folds))
		for _, f := range folds {
			if v, ok := f.Scores[s]; ok {
				vals = append(vals, v)
			}
		}
		row.Summary[s] = summarize(vals)
	}
	return row
}

// Failed builds a row for a pair that could not be evaluated.
func Failed(taskID, estimatorID string, runtime time.Duration, err error) Row {
	return Row{TaskID: taskID, EstimatorID: estimatorID, Runtime: runtime, Err: err.Error()}
}

func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{Mean: math.NaN(), Std: math.NaN()}
	}
	s := Summary{Mean: stat.Mean(vals, nil), Std: math.NaN()}
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	return s
}

// Columns returns the row's columns in report order.
func (r Row) Columns() []string {
	cols := []string{ColValidationID, ColModelID}
	cols = append(cols, r.scoreColumns()...)
	cols = append(cols, ColRuntime)
	if r.Err != "" {
		cols = append(cols, ColError)
	}
	return cols
}

func (r Row) scoreColumns() []string {
	var cols []string
	for j, s := range r.Scorers {
		for _, f := range r.Folds {
			cols = append(cols, FoldColumn(s, f.Index))
			if j == 0 {
				cols = append(cols, TrainColumn(f.Index), TestColumn(f.Index), PredColumn(f.Index))
			}
		}
		cols = append(cols, MeanColumn(s), StdColumn(s))
	}
	return cols
}

// Cell returns the value of column col, or a missing cell.
func (r Row) Cell(col string) Cell {
	switch col {
	case ColValidationID:
		return StringCell(r.TaskID)
	case ColModelID:
		return StringCell(r.EstimatorID)
	case ColRuntime:
		return NumberCell(r.Runtime.Seconds())
	case ColError:
		if r.Err == "" {
			return Cell{}
		}
		return StringCell(r.Err)
	}
	for _, s := range r.Scorers {
		sum, ok := r.Summary[s]
		if !ok {
			continue
		}
		switch col {
		case MeanColumn(s):
			return NumberCell(sum.Mean)
		case StdColumn(s):
			return NumberCell(sum.Std)
		}
	}
	for _, f := range r.Folds {
		switch col {
		case TrainColumn(f.Index):
			return SeriesCell(f.Train)
		case TestColumn(f.Index):
			return SeriesCell(f.Test)
		case PredColumn(f.Index):
			return SeriesCell(f.Pred)
		}
		for _, s := range r.Scorers {
			if col == FoldColumn(s, f.Index) {
				if v, ok := f.Scores[s]; ok {
					return NumberCell(v)
				}
			}
		}
	}
	return Cell{}
}
