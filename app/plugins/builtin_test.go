package plugins

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/factory"
	"github.com/kilianp07/fcbench/core/prediction"
	"github.com/kilianp07/fcbench/core/split"
)

func TestBuiltinForecasters(t *testing.T) {
	f, err := Forecasters.Create(factory.ModuleConfig{Type: "naive", Conf: map[string]any{"strategy": "drift"}})
	require.NoError(t, err)
	naive, ok := f.(*prediction.NaiveForecaster)
	require.True(t, ok)
	assert.Equal(t, prediction.StrategyDrift, naive.Strategy)
	assert.Equal(t, 1, naive.SP)

	_, err = Forecasters.Create(factory.ModuleConfig{Type: "naive", Conf: map[string]any{"strategy": "magic"}})
	assert.Error(t, err)
	_, err = Forecasters.Create(factory.ModuleConfig{Type: "trend", Conf: map[string]any{"degree": 2}})
	assert.Error(t, err)

	f, err = Forecasters.Create(factory.ModuleConfig{Type: "mock", Conf: map[string]any{"constant": 4}})
	require.NoError(t, err)
	assert.Equal(t, "MockForecaster", f.TypeTag())
}

func TestBuiltinSplitters(t *testing.T) {
	s, err := Splitters.Create(factory.ModuleConfig{Type: "expanding", Conf: map[string]any{"initial_window": 2}})
	require.NoError(t, err)
	exp, ok := s.(*split.ExpandingWindowSplitter)
	require.True(t, ok)
	assert.Equal(t, 1, exp.StepLength)
	assert.Equal(t, []int{1}, exp.FH)

	s, err = Splitters.Create(factory.ModuleConfig{Type: "sliding", Conf: map[string]any{"window_length": 3, "fh": []any{1, 2}}})
	require.NoError(t, err)
	folds, err := s.Split(6)
	require.NoError(t, err)
	assert.Len(t, folds, 2)

	_, err = Splitters.Create(factory.ModuleConfig{Type: "expanding"})
	assert.Error(t, err)
}

func TestBuiltinLoaders(t *testing.T) {
	l, err := Loaders.Create(factory.ModuleConfig{Type: "static", Conf: map[string]any{"name": "s", "values": []any{1, 2.5}}})
	require.NoError(t, err)
	assert.Equal(t, "s", l.Name())
	y, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, y.Values)

	l, err = Loaders.Create(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": "data/airline.csv"}})
	require.NoError(t, err)
	assert.Equal(t, "airline", l.Name())

	_, err = Loaders.Create(factory.ModuleConfig{Type: "http", Conf: map[string]any{}})
	assert.Error(t, err)
}

func TestBuiltinStores(t *testing.T) {
	for _, backend := range []string{config.BackendJSONL, config.BackendRotating, config.BackendSQLite} {
		f, ok := Stores[backend]
		require.True(t, ok, backend)
		s, err := f(config.ResultsConfig{Backend: backend, Path: filepath.Join(t.TempDir(), "runs")})
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}
}
