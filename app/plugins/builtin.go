package plugins

import (
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/dataset"
	"github.com/kilianp07/fcbench/core/factory"
	"github.com/kilianp07/fcbench/core/prediction"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/core/split"
	"github.com/kilianp07/fcbench/infra/httpdata"
)

func init() {
	RegisterForecaster("naive", func(conf map[string]any) (prediction.Forecaster, error) {
		f := prediction.NewNaiveForecaster(prediction.StrategyLast)
		if err := factory.Decode(conf, f); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	})
	RegisterForecaster("trend", func(conf map[string]any) (prediction.Forecaster, error) {
		if err := factory.Decode(conf, &struct{}{}); err != nil {
			return nil, err
		}
		return prediction.NewTrendForecaster(), nil
	})
	RegisterForecaster("mock", func(conf map[string]any) (prediction.Forecaster, error) {
		var f prediction.MockForecaster
		if err := factory.Decode(conf, &f); err != nil {
			return nil, err
		}
		return &f, nil
	})

	RegisterSplitter("expanding", func(conf map[string]any) (split.Splitter, error) {
		s := &split.ExpandingWindowSplitter{StepLength: 1, FH: []int{1}}
		if err := factory.Decode(conf, s); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	})
	RegisterSplitter("sliding", func(conf map[string]any) (split.Splitter, error) {
		s := &split.SlidingWindowSplitter{StepLength: 1, FH: []int{1}}
		if err := factory.Decode(conf, s); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	})

	RegisterLoader("csv", func(conf map[string]any) (dataset.Loader, error) {
		var l dataset.CSVLoader
		if err := factory.Decode(conf, &l); err != nil {
			return nil, err
		}
		return l, nil
	})
	RegisterLoader("static", func(conf map[string]any) (dataset.Loader, error) {
		var c struct {
			Name   string    `json:"name"`
			Values []float64 `json:"values"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return dataset.Static(c.Name, c.Values...), nil
	})
	RegisterLoader("http", func(conf map[string]any) (dataset.Loader, error) {
		var c httpdata.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return httpdata.New(c)
	})

	RegisterStore(config.BackendJSONL, func(c config.ResultsConfig) (results.Store, error) {
		return results.NewJSONLStore(c.Path)
	})
	RegisterStore(config.BackendRotating, func(c config.ResultsConfig) (results.Store, error) {
		return results.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	RegisterStore(config.BackendSQLite, func(c config.ResultsConfig) (results.Store, error) {
		return results.NewSQLiteStore(c.Path)
	})
}
