// Package results keeps the history of benchmark runs. Each run appends one
// RunRecord summarising its report table; stores can be queried by run,
// task, model and time range.
package results

import (
	"context"
	"math"
	"time"

	"github.com/kilianp07/fcbench/core/report"
)

// PairResult summarises one report row.
type PairResult struct {
	TaskID      string             `json:"validation_id"`
	EstimatorID string             `json:"model_id"`
	Folds       int                `json:"folds"`
	Means       map[string]float64 `json:"means,omitempty"`
	Stds        map[string]float64 `json:"stds,omitempty"`
	RuntimeSecs float64            `json:"runtime_secs"`
	Error       string             `json:"error,omitempty"`
}

// RunRecord captures one benchmark run.
type RunRecord struct {
	RunID     string       `json:"run_id"`
	Timestamp time.Time    `json:"timestamp"`
	Output    string       `json:"output,omitempty"`
	Results   []PairResult `json:"results"`
}

// NewRunRecord summarises tbl. Undefined statistics (NaN) are left out
// since they have no JSON representation.
func NewRunRecord(runID string, ts time.Time, output string, tbl *report.Table) RunRecord {
	rec := RunRecord{RunID: runID, Timestamp: ts, Output: output}
	if tbl == nil {
		return rec
	}
	for _, row := range tbl.Rows {
		pr := PairResult{
			TaskID:      row.TaskID,
			EstimatorID: row.EstimatorID,
			Folds:       len(row.Folds),
			RuntimeSecs: row.Runtime.Seconds(),
			Error:       row.Err,
		}
		for name, s := range row.Summary {
			if finite(s.Mean) {
				if pr.Means == nil {
					pr.Means = make(map[string]float64)
				}
				pr.Means[name] = s.Mean
			}
			if finite(s.Std) {
				if pr.Stds == nil {
					pr.Stds = make(map[string]float64)
				}
				pr.Stds[name] = s.Std
			}
		}
		rec.Results = append(rec.Results, pr)
	}
	return rec
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	RunID       string
	TaskID      string
	EstimatorID string
	Start       time.Time
	End         time.Time
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// filter applies q to r. Task and model filters narrow the results of a
// record; a record left without results does not match.
func filter(r RunRecord, q Query) (RunRecord, bool) {
	if q.RunID != "" && r.RunID != q.RunID {
		return r, false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return r, false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return r, false
	}
	if q.TaskID == "" && q.EstimatorID == "" {
		return r, true
	}
	var kept []PairResult
	for _, pr := range r.Results {
		if q.TaskID != "" && pr.TaskID != q.TaskID {
			continue
		}
		if q.EstimatorID != "" && pr.EstimatorID != q.EstimatorID {
			continue
		}
		kept = append(kept, pr)
	}
	if len(kept) == 0 {
		return r, false
	}
	r.Results = kept
	return r, true
}
