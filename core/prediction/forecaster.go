package prediction

import (
	"errors"
	"fmt"

	"github.com/kilianp07/fcbench/core/series"
)

// ErrNotFitted is returned by Predict before Fit succeeded.
var ErrNotFitted = errors.New("forecaster not fitted")

// Forecaster fits a univariate series and forecasts future steps.
type Forecaster interface {
	// TypeTag names the forecaster family, e.g. "NaiveForecaster".
	TypeTag() string
	// Fit trains on y. Implementations may reject a second Fit.
	Fit(y series.Series) error
	// Predict forecasts the steps in fh, counted in label units from the
	// last training label. Labels of the result are the last training
	// label plus the step.
	Predict(fh []int) (series.Series, error)
	// Clone returns an unfitted forecaster with the same parameters.
	Clone() Forecaster
}

func horizonLabels(lastLabel int, fh []int) ([]int, error) {
	if len(fh) == 0 {
		return nil, fmt.Errorf("empty forecasting horizon")
	}
	out := make([]int, len(fh))
	for i, h := range fh {
		if h < 1 {
			return nil, fmt.Errorf("horizon step must be >= 1, got %d", h)
		}
		out[i] = lastLabel + h
	}
	return out, nil
}
