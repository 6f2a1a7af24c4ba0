package cmd

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fcbench/core/report"
)

func TestSummaryRows(t *testing.T) {
	tbl := &report.Table{Rows: []report.Row{
		{
			TaskID:      "t-v1",
			EstimatorID: "a-v1",
			Scorers:     []string{"MeanAbsoluteError"},
			Summary:     map[string]report.Summary{"MeanAbsoluteError": {Mean: 0.5, Std: math.NaN()}},
			Runtime:     1500 * time.Microsecond,
		},
		report.Failed("t-v1", "b-v1", time.Second, errors.New("boom")),
	}}
	headers, rows := summaryRows(tbl)
	assert.Equal(t, []string{"validation_id", "model_id", "MeanAbsoluteError", "runtime", "error"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"t-v1", "a-v1", "0.5", "2ms", ""}, rows[0])
	assert.Equal(t, []string{"t-v1", "b-v1", "", "1s", "boom"}, rows[1])
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "0.05556 ± 0.07857", formatStat(report.Summary{Mean: 0.0555556, Std: 0.0785674}))
}
