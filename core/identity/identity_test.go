package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type naive struct{ strategy string }

func (naive) TypeTag() string { return "NaiveForecaster" }

type trend struct{}

func (trend) TypeTag() string { return "TrendForecaster" }

type est interface{ TypeTag() string }

func ids[T any](entries []Entry[T]) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestResolveOne(t *testing.T) {
	r := NewResolver[est](nil)

	got, err := r.One(naive{}, "NaiveForecaster-v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"NaiveForecaster-v1"}, ids(got))

	got, err = r.One(naive{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"NaiveForecaster-v1"}, ids(got))
}

func TestResolveOneInvalidID(t *testing.T) {
	r := NewResolver[est](nil)
	_, err := r.One(naive{}, "naive")
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestResolveList(t *testing.T) {
	r := NewResolver[est](nil)
	got := r.List([]est{naive{}, trend{}})
	assert.Equal(t, []string{"NaiveForecaster-v1", "TrendForecaster-v1"}, ids(got))
}

func TestResolveListSameTypeGetsDistinctVersions(t *testing.T) {
	r := NewResolver[est](nil)
	got := r.List([]est{naive{"last"}, trend{}, naive{"mean"}})
	assert.Equal(t, []string{"NaiveForecaster-v1", "TrendForecaster-v1", "NaiveForecaster-v2"}, ids(got))
	assert.Equal(t, naive{"mean"}, got[2].Value)
}

func TestResolveSkipsTakenIDs(t *testing.T) {
	taken := map[string]bool{"NaiveForecaster-v1": true}
	r := NewResolver[est](func(id string) bool { return taken[id] })
	got, err := r.One(naive{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"NaiveForecaster-v2"}, ids(got))
}

func TestResolveMap(t *testing.T) {
	r := NewResolver[est](nil)
	got, err := r.Map(map[string]est{"T-v1": trend{}, "N-v1": naive{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"N-v1", "T-v1"}, ids(got))

	_, err = r.Map(map[string]est{"estimator_1": naive{}})
	assert.Error(t, err)
}

func TestCustomNaming(t *testing.T) {
	r := &Resolver[est]{Naming: func(tag string, seq int) string { return tag + "#" + string(rune('0'+seq)) }}
	got := r.List([]est{naive{}, naive{}})
	assert.Equal(t, []string{"NaiveForecaster#1", "NaiveForecaster#2"}, ids(got))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("estimator_1-v1"))
	assert.NoError(t, ValidateID("[dataset=x]_[cv_splitter=Y]-v12"))
	assert.Error(t, ValidateID("-v1"))
	assert.Error(t, ValidateID("NaiveForecaster-v"))
}
