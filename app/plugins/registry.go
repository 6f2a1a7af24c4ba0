// Package plugins holds the module registries used to build a benchmark
// from configuration. Built-in modules register themselves in init.
package plugins

import (
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/dataset"
	"github.com/kilianp07/fcbench/core/factory"
	"github.com/kilianp07/fcbench/core/prediction"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/core/split"
)

// StoreFactory builds a run history store from its configuration.
type StoreFactory func(cfg config.ResultsConfig) (results.Store, error)

var (
	Forecasters = factory.NewRegistry[prediction.Forecaster]()
	Splitters   = factory.NewRegistry[split.Splitter]()
	Loaders     = factory.NewRegistry[dataset.Loader]()
	Stores      = map[string]StoreFactory{}
)

func RegisterForecaster(name string, f factory.Factory[prediction.Forecaster]) {
	Forecasters.MustRegister(name, f)
}
func RegisterSplitter(name string, f factory.Factory[split.Splitter]) { Splitters.MustRegister(name, f) }
func RegisterLoader(name string, f factory.Factory[dataset.Loader])   { Loaders.MustRegister(name, f) }
func RegisterStore(name string, f StoreFactory)                       { Stores[name] = f }
