package report

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fcbench/core/series"
)

func mustIndexed(t *testing.T, idx []int, vals []float64) series.Series {
	t.Helper()
	s, err := series.NewIndexed(idx, vals)
	require.NoError(t, err)
	return s
}

func sampleFolds(t *testing.T) []FoldResult {
	return []FoldResult{
		{
			Index:  0,
			Train:  series.New(2),
			Test:   mustIndexed(t, []int{1}, []float64{2}),
			Pred:   mustIndexed(t, []int{1}, []float64{2}),
			Scores: map[string]float64{"MeanAbsolutePercentageError": 0, "MeanAbsoluteError": 0},
		},
		{
			Index:  1,
			Train:  series.New(2, 2),
			Test:   mustIndexed(t, []int{2}, []float64{3}),
			Pred:   mustIndexed(t, []int{2}, []float64{2}),
			Scores: map[string]float64{"MeanAbsolutePercentageError": 1.0 / 3, "MeanAbsoluteError": 1},
		},
	}
}

func TestAggregateSummary(t *testing.T) {
	row := Aggregate("task-v1", "NaiveForecaster-v1",
		[]string{"MeanAbsolutePercentageError", "MeanAbsoluteError"}, sampleFolds(t), time.Second)

	mae := row.Summary["MeanAbsoluteError"]
	assert.InDelta(t, 0.5, mae.Mean, 1e-12)
	assert.InDelta(t, 0.7071, mae.Std, 1e-4)
	mape := row.Summary["MeanAbsolutePercentageError"]
	assert.InDelta(t, 0.1666, mape.Mean, 1e-3)
	assert.InDelta(t, 0.2357, mape.Std, 1e-3)
}

func TestAggregateSingleFoldStdIsNaN(t *testing.T) {
	folds := sampleFolds(t)[:1]
	row := Aggregate("t-v1", "m-v1", []string{"MeanAbsoluteError"}, folds, 0)
	assert.True(t, math.IsNaN(row.Summary["MeanAbsoluteError"].Std))
	assert.Equal(t, "NaN", row.Cell(StdColumn("MeanAbsoluteError")).String())
}

func TestAggregateSnapshotsAreCopies(t *testing.T) {
	folds := sampleFolds(t)
	row := Aggregate("t-v1", "m-v1", []string{"MeanAbsoluteError"}, folds, 0)
	folds[0].Train.Values[0] = 42
	folds[0].Scores["MeanAbsoluteError"] = 42
	assert.Equal(t, 2.0, row.Folds[0].Train.Values[0])
	assert.Equal(t, 0.0, row.Folds[0].Scores["MeanAbsoluteError"])
}

func TestRowColumnsOrder(t *testing.T) {
	row := Aggregate("t-v1", "m-v1",
		[]string{"MeanAbsolutePercentageError", "MeanAbsoluteError"}, sampleFolds(t), 0)
	want := []string{
		"validation_id", "model_id",
		"MeanAbsolutePercentageError_fold_0_test", "y_train_fold_0", "y_test_fold_0", "y_pred_fold_0",
		"MeanAbsolutePercentageError_fold_1_test", "y_train_fold_1", "y_test_fold_1", "y_pred_fold_1",
		"MeanAbsolutePercentageError_mean", "MeanAbsolutePercentageError_std",
		"MeanAbsoluteError_fold_0_test", "MeanAbsoluteError_fold_1_test",
		"MeanAbsoluteError_mean", "MeanAbsoluteError_std",
		"runtime_secs",
	}
	assert.Equal(t, want, row.Columns())
	assert.Equal(t, `{"index":[2],"values":[3]}`, row.Cell("y_test_fold_1").String())
	assert.Equal(t, "1", row.Cell("MeanAbsoluteError_fold_1_test").String())
}

func TestMeanMatchesFoldColumns(t *testing.T) {
	row := Aggregate("t-v1", "m-v1", []string{"MeanAbsoluteError"}, sampleFolds(t), 0)
	sum := 0.0
	for _, f := range row.Folds {
		sum += row.Cell(FoldColumn("MeanAbsoluteError", f.Index)).Num
	}
	assert.InDelta(t, sum/float64(len(row.Folds)), row.Cell(MeanColumn("MeanAbsoluteError")).Num, 1e-12)
}

func TestTableUnionOfColumns(t *testing.T) {
	a := Aggregate("t1-v1", "m-v1", []string{"MeanAbsoluteError"}, sampleFolds(t), 0)
	b := Aggregate("t2-v1", "m-v1", []string{"MeanAbsolutePercentageError"}, sampleFolds(t)[:1], 0)
	tbl := &Table{Rows: []Row{a, b}}

	cols := tbl.Columns()
	assert.Contains(t, cols, "MeanAbsolutePercentageError_mean")
	assert.Equal(t, "runtime_secs", cols[len(cols)-1])

	assert.True(t, a.Cell("MeanAbsolutePercentageError_mean").Missing())
	recs := tbl.Records()
	require.Len(t, recs, 3)
	for i, c := range recs[0] {
		if c == "MeanAbsoluteError_mean" {
			assert.Equal(t, "0.5", recs[1][i])
			assert.Equal(t, "", recs[2][i])
		}
	}
	maps := tbl.Maps()
	_, ok := maps[1]["MeanAbsoluteError_mean"]
	assert.False(t, ok)
}

func TestFailedRow(t *testing.T) {
	ok := Aggregate("t-v1", "m-v1", []string{"MeanAbsoluteError"}, sampleFolds(t), 0)
	bad := Failed("t-v1", "m-v2", time.Millisecond, errors.New("boom"))
	tbl := &Table{Rows: []Row{ok, bad}}
	cols := tbl.Columns()
	assert.Equal(t, "error", cols[len(cols)-1])
	assert.Equal(t, "boom", bad.Cell("error").String())
	assert.True(t, ok.Cell("error").Missing())
	assert.True(t, bad.Cell("MeanAbsoluteError_mean").Missing())
	assert.Len(t, tbl.Failed(), 1)
}
