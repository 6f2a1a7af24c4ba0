// Package dataset provides data loaders feeding benchmark tasks and the
// metadata describing published datasets.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/fcbench/core/series"
)

// Loader produces the full labeled series of a task. It is invoked once per
// (task, estimator) pair so every pair splits a fresh copy.
type Loader interface {
	// Name identifies the dataset in task identifiers.
	Name() string
	Load(ctx context.Context) (series.Series, error)
}

// Func adapts a function to the Loader interface.
type Func struct {
	DatasetName string
	Fn          func(ctx context.Context) (series.Series, error)
}

// NewFunc returns a named function loader.
func NewFunc(name string, fn func(ctx context.Context) (series.Series, error)) Func {
	return Func{DatasetName: name, Fn: fn}
}

func (f Func) Name() string { return f.DatasetName }

func (f Func) Load(ctx context.Context) (series.Series, error) {
	if f.Fn == nil {
		return series.Series{}, fmt.Errorf("loader %s has no function", f.DatasetName)
	}
	return f.Fn(ctx)
}

// Static returns a loader yielding a copy of values labeled 0..n-1.
func Static(name string, values ...float64) Func {
	return NewFunc(name, func(context.Context) (series.Series, error) {
		return series.New(values...), nil
	})
}

// CSVLoader reads one numeric column of a CSV file.
type CSVLoader struct {
	Path string `json:"path"`
	// Column is the header name of the value column. Empty selects the
	// first column.
	Column string `json:"column"`
	// IndexColumn optionally names an integer label column.
	IndexColumn string `json:"index_column"`
	// NoHeader treats the first line as data; columns are then addressed
	// by position only.
	NoHeader bool `json:"no_header"`
	// DatasetName overrides the file stem as the dataset name.
	DatasetName string `json:"name"`
}

// Name returns DatasetName or the file name without extension.
func (l CSVLoader) Name() string {
	if l.DatasetName != "" {
		return l.DatasetName
	}
	base := filepath.Base(l.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads the file on every call.
func (l CSVLoader) Load(ctx context.Context) (series.Series, error) {
	if err := ctx.Err(); err != nil {
		return series.Series{}, err
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return series.Series{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, l.Column, l.IndexColumn, !l.NoHeader)
}

// ReadCSV parses a series from CSV data.
//
//gocyclo:ignore
func ReadCSV(r io.Reader, column, indexColumn string, header bool) (series.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return series.Series{}, fmt.Errorf("read csv: %w", err)
	}
	valCol, idxCol := 0, -1
	if header {
		if len(records) == 0 {
			return series.Series{}, fmt.Errorf("csv has no header")
		}
		head := records[0]
		records = records[1:]
		if column != "" {
			valCol = indexOf(head, column)
			if valCol < 0 {
				return series.Series{}, fmt.Errorf("column %q not found", column)
			}
		}
		if indexColumn != "" {
			idxCol = indexOf(head, indexColumn)
			if idxCol < 0 {
				return series.Series{}, fmt.Errorf("index column %q not found", indexColumn)
			}
		}
	}
	index := make([]int, 0, len(records))
	values := make([]float64, 0, len(records))
	for i, rec := range records {
		if valCol >= len(rec) {
			return series.Series{}, fmt.Errorf("row %d: missing value column", i)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[valCol]), 64)
		if err != nil {
			return series.Series{}, fmt.Errorf("row %d: %w", i, err)
		}
		label := i
		if idxCol >= 0 {
			if idxCol >= len(rec) {
				return series.Series{}, fmt.Errorf("row %d: missing index column", i)
			}
			label, err = strconv.Atoi(strings.TrimSpace(rec[idxCol]))
			if err != nil {
				return series.Series{}, fmt.Errorf("row %d: index: %w", i, err)
			}
		}
		index = append(index, label)
		values = append(values, v)
	}
	return series.NewIndexed(index, values)
}

func indexOf(head []string, name string) int {
	for i, h := range head {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
