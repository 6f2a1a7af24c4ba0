// Package scoring implements forecasting error metrics. A scorer's Name is
// used verbatim as the column prefix of the benchmark report.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fcbench/core/series"
)

// eps guards percentage errors against zero denominators.
var eps = math.Nextafter(1, 2) - 1

// Scorer maps true and predicted values to a scalar.
type Scorer interface {
	Name() string
	Score(yTrue, yPred series.Series) (float64, error)
}

type metric struct {
	name string
	fn   func(yTrue, yPred []float64) float64
}

func (m metric) Name() string { return m.name }

func (m metric) Score(yTrue, yPred series.Series) (float64, error) {
	if yTrue.Len() != yPred.Len() {
		return 0, fmt.Errorf("%s: length mismatch %d vs %d", m.name, yTrue.Len(), yPred.Len())
	}
	if yTrue.Len() == 0 {
		return 0, fmt.Errorf("%s: empty input", m.name)
	}
	return m.fn(yTrue.Values, yPred.Values), nil
}

// MeanAbsoluteError is mean(|y - ŷ|).
func MeanAbsoluteError() Scorer {
	return metric{name: "MeanAbsoluteError", fn: func(y, p []float64) float64 {
		return stat.Mean(absErrors(y, p), nil)
	}}
}

// MeanSquaredError is mean((y - ŷ)²).
func MeanSquaredError() Scorer {
	return metric{name: "MeanSquaredError", fn: mse}
}

// RootMeanSquaredError is sqrt(mean((y - ŷ)²)).
func RootMeanSquaredError() Scorer {
	return metric{name: "RootMeanSquaredError", fn: func(y, p []float64) float64 {
		return math.Sqrt(mse(y, p))
	}}
}

// MedianAbsoluteError is median(|y - ŷ|).
func MedianAbsoluteError() Scorer {
	return metric{name: "MedianAbsoluteError", fn: func(y, p []float64) float64 {
		e := absErrors(y, p)
		sort.Float64s(e)
		if len(e)%2 == 1 {
			return e[len(e)/2]
		}
		return (e[len(e)/2-1] + e[len(e)/2]) / 2
	}}
}

// MeanAbsolutePercentageError is mean(|y - ŷ| / max(|y|, eps)).
func MeanAbsolutePercentageError() Scorer {
	return metric{name: "MeanAbsolutePercentageError", fn: func(y, p []float64) float64 {
		e := percentageErrors(y, p)
		for i := range e {
			e[i] = math.Abs(e[i])
		}
		return stat.Mean(e, nil)
	}}
}

// MeanSquaredPercentageError is mean(((y - ŷ) / max(|y|, eps))²).
func MeanSquaredPercentageError() Scorer {
	return metric{name: "MeanSquaredPercentageError", fn: func(y, p []float64) float64 {
		e := percentageErrors(y, p)
		floats.Mul(e, e)
		return stat.Mean(e, nil)
	}}
}

// ByName returns the built-in scorer with the given name.
func ByName(name string) (Scorer, error) {
	for _, s := range []Scorer{
		MeanAbsoluteError(),
		MeanSquaredError(),
		RootMeanSquaredError(),
		MedianAbsoluteError(),
		MeanAbsolutePercentageError(),
		MeanSquaredPercentageError(),
	} {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown scorer %q", name)
}

func residuals(y, p []float64) []float64 {
	r := make([]float64, len(y))
	floats.SubTo(r, y, p)
	return r
}

func absErrors(y, p []float64) []float64 {
	r := residuals(y, p)
	for i := range r {
		r[i] = math.Abs(r[i])
	}
	return r
}

func mse(y, p []float64) float64 {
	r := residuals(y, p)
	floats.Mul(r, r)
	return stat.Mean(r, nil)
}

func percentageErrors(y, p []float64) []float64 {
	r := residuals(y, p)
	for i := range r {
		r[i] /= math.Max(math.Abs(y[i]), eps)
	}
	return r
}
