package prediction

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fcbench/core/series"
)

// Naive strategies.
const (
	StrategyLast  = "last"
	StrategyMean  = "mean"
	StrategyDrift = "drift"
)

// NaiveForecaster forecasts from simple statistics of the training data.
//
// Strategy "last" repeats the last value (or the last season when SP > 1),
// "mean" repeats the mean of the last WindowLength values (all values when
// WindowLength is 0) and "drift" extrapolates the line through the first
// and last observation.
type NaiveForecaster struct {
	Strategy     string `json:"strategy"`
	SP           int    `json:"sp"`
	WindowLength int    `json:"window_length"`

	y      series.Series
	fitted bool
}

// NewNaiveForecaster returns a forecaster using the given strategy.
func NewNaiveForecaster(strategy string) *NaiveForecaster {
	return &NaiveForecaster{Strategy: strategy, SP: 1}
}

func (f *NaiveForecaster) TypeTag() string { return "NaiveForecaster" }

// Validate checks the configured parameters.
func (f *NaiveForecaster) Validate() error {
	switch f.Strategy {
	case StrategyLast, StrategyMean, StrategyDrift:
	default:
		return fmt.Errorf("unknown naive strategy %q", f.Strategy)
	}
	if f.SP < 0 || f.WindowLength < 0 {
		return fmt.Errorf("sp and window_length must be >= 0")
	}
	return nil
}

// Fit stores the training window.
func (f *NaiveForecaster) Fit(y series.Series) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if y.Len() == 0 {
		return fmt.Errorf("naive forecaster: empty training series")
	}
	f.y = y.Clone()
	f.fitted = true
	return nil
}

// Predict forecasts the steps in fh.
func (f *NaiveForecaster) Predict(fh []int) (series.Series, error) {
	if !f.fitted {
		return series.Series{}, ErrNotFitted
	}
	last, lastVal, _ := f.y.Last()
	labels, err := horizonLabels(last, fh)
	if err != nil {
		return series.Series{}, err
	}
	values := make([]float64, len(fh))
	n := f.y.Len()
	switch f.Strategy {
	case StrategyLast:
		sp := f.SP
		if sp <= 1 || sp > n {
			sp = 1
		}
		for i, h := range fh {
			values[i] = f.y.Values[n-sp+(h-1)%sp]
		}
	case StrategyMean:
		window := f.y.Values
		if f.WindowLength > 0 && f.WindowLength < n {
			window = window[n-f.WindowLength:]
		}
		m := stat.Mean(window, nil)
		for i := range values {
			values[i] = m
		}
	case StrategyDrift:
		slope := 0.0
		if n > 1 {
			slope = (lastVal - f.y.Values[0]) / float64(n-1)
		}
		for i, h := range fh {
			values[i] = lastVal + slope*float64(h)
		}
	}
	return series.NewIndexed(labels, values)
}

// Clone returns an unfitted copy.
func (f *NaiveForecaster) Clone() Forecaster {
	return &NaiveForecaster{Strategy: f.Strategy, SP: f.SP, WindowLength: f.WindowLength}
}
