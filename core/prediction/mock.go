package prediction

import (
	"errors"
	"fmt"

	"github.com/kilianp07/fcbench/core/series"
)

// MockForecaster returns deterministic forecasts. It refuses to be fitted
// twice, which makes state leaking across folds visible in tests.
type MockForecaster struct {
	// Values holds the forecast per horizon step; missing steps use Constant.
	Values   map[int]float64 `json:"values"`
	Constant float64         `json:"constant"`
	// FailTrainLen makes Fit fail when the training series has this length.
	FailTrainLen int `json:"fail_train_len"`

	last   int
	fitted bool
}

func (m *MockForecaster) TypeTag() string { return "MockForecaster" }

// Fit records the last label of y.
func (m *MockForecaster) Fit(y series.Series) error {
	if m.fitted {
		return errors.New("mock forecaster already fitted")
	}
	if m.FailTrainLen > 0 && y.Len() == m.FailTrainLen {
		return fmt.Errorf("mock forecaster: configured failure at train length %d", y.Len())
	}
	m.last, _, _ = y.Last()
	m.fitted = true
	return nil
}

// Predict returns the configured value for each step or Constant.
func (m *MockForecaster) Predict(fh []int) (series.Series, error) {
	if !m.fitted {
		return series.Series{}, ErrNotFitted
	}
	labels, err := horizonLabels(m.last, fh)
	if err != nil {
		return series.Series{}, err
	}
	values := make([]float64, len(fh))
	for i, h := range fh {
		if v, ok := m.Values[h]; ok {
			values[i] = v
		} else {
			values[i] = m.Constant
		}
	}
	return series.NewIndexed(labels, values)
}

// Clone returns an unfitted copy sharing the configuration.
func (m *MockForecaster) Clone() Forecaster {
	cp := make(map[int]float64, len(m.Values))
	for k, v := range m.Values {
		cp[k] = v
	}
	return &MockForecaster{Values: cp, Constant: m.Constant, FailTrainLen: m.FailTrainLen}
}
