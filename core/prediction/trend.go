package prediction

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fcbench/core/series"
)

// TrendForecaster fits a least squares line of values against index labels.
type TrendForecaster struct {
	alpha  float64
	beta   float64
	last   int
	fitted bool
}

// NewTrendForecaster returns an unfitted trend forecaster.
func NewTrendForecaster() *TrendForecaster { return &TrendForecaster{} }

func (f *TrendForecaster) TypeTag() string { return "TrendForecaster" }

// Fit estimates intercept and slope. A single observation yields a flat line.
func (f *TrendForecaster) Fit(y series.Series) error {
	if y.Len() == 0 {
		return fmt.Errorf("trend forecaster: empty training series")
	}
	f.last, _, _ = y.Last()
	if y.Len() == 1 {
		f.alpha, f.beta = y.Values[0], 0
		f.fitted = true
		return nil
	}
	x := make([]float64, y.Len())
	for i, l := range y.Index {
		x[i] = float64(l)
	}
	f.alpha, f.beta = stat.LinearRegression(x, y.Values, nil, false)
	f.fitted = true
	return nil
}

// Predict evaluates the fitted line at the horizon labels.
func (f *TrendForecaster) Predict(fh []int) (series.Series, error) {
	if !f.fitted {
		return series.Series{}, ErrNotFitted
	}
	labels, err := horizonLabels(f.last, fh)
	if err != nil {
		return series.Series{}, err
	}
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = f.alpha + f.beta*float64(l)
	}
	return series.NewIndexed(labels, values)
}

// Clone returns an unfitted trend forecaster.
func (f *TrendForecaster) Clone() Forecaster { return &TrendForecaster{} }
