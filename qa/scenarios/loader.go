package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fcbench/core/factory"
)

// ModuleDef selects a registered module and its settings.
type ModuleDef struct {
	Type string         `yaml:"type"`
	Conf map[string]any `yaml:"conf,omitempty"`
}

func (m ModuleDef) ToModule() factory.ModuleConfig {
	return factory.ModuleConfig{Type: m.Type, Conf: m.Conf}
}

// Expected lists the scores a scenario must reproduce, keyed by model id
// then scorer name, and the model ids that must fail.
type Expected struct {
	Means     map[string]map[string]float64 `yaml:"means"`
	Failed    []string                      `yaml:"failed,omitempty"`
	Tolerance float64                       `yaml:"tolerance,omitempty"`
}

// Scenario is one regression case: a series, a splitter, estimators and
// the expected mean scores.
type Scenario struct {
	Name              string      `yaml:"name"`
	Description       string      `yaml:"description,omitempty"`
	Series            []float64   `yaml:"series"`
	Splitter          ModuleDef   `yaml:"splitter"`
	Scorers           []string    `yaml:"scorers"`
	Estimators        []ModuleDef `yaml:"estimators"`
	ContinueOnFailure bool        `yaml:"continue_on_failure,omitempty"`
	Expected          Expected    `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
