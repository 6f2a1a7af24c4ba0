// Package series holds the labeled univariate series exchanged between
// loaders, splitters, forecasters and scorers.
package series

import (
	"encoding/json"
	"fmt"
)

// Series is a univariate series with integer index labels.
type Series struct {
	Index  []int     `json:"index"`
	Values []float64 `json:"values"`
}

// New returns a series labeled 0..n-1.
func New(values ...float64) Series {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	v := make([]float64, len(values))
	copy(v, values)
	return Series{Index: idx, Values: v}
}

// NewIndexed returns a series with explicit labels. Both slices are copied.
func NewIndexed(index []int, values []float64) (Series, error) {
	if len(index) != len(values) {
		return Series{}, fmt.Errorf("index length %d does not match values length %d", len(index), len(values))
	}
	s := Series{Index: make([]int, len(index)), Values: make([]float64, len(values))}
	copy(s.Index, index)
	copy(s.Values, values)
	return s, nil
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Take returns a copy of the observations at the given positions.
func (s Series) Take(positions []int) (Series, error) {
	out := Series{Index: make([]int, len(positions)), Values: make([]float64, len(positions))}
	for i, p := range positions {
		if p < 0 || p >= len(s.Values) {
			return Series{}, fmt.Errorf("position %d out of range [0,%d)", p, len(s.Values))
		}
		out.Index[i] = s.Index[p]
		out.Values[i] = s.Values[p]
	}
	return out, nil
}

// Clone returns a deep copy.
func (s Series) Clone() Series {
	out := Series{Index: make([]int, len(s.Index)), Values: make([]float64, len(s.Values))}
	copy(out.Index, s.Index)
	copy(out.Values, s.Values)
	return out
}

// Last returns the final label and value. ok is false for an empty series.
func (s Series) Last() (label int, value float64, ok bool) {
	if len(s.Values) == 0 {
		return 0, 0, false
	}
	n := len(s.Values) - 1
	return s.Index[n], s.Values[n], true
}

// Equal reports whether both series carry identical labels and values.
func (s Series) Equal(o Series) bool {
	if len(s.Index) != len(o.Index) || len(s.Values) != len(o.Values) {
		return false
	}
	for i := range s.Index {
		if s.Index[i] != o.Index[i] {
			return false
		}
	}
	for i := range s.Values {
		if s.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

// String renders the series as compact JSON.
func (s Series) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%v", s.Values)
	}
	return string(b)
}
