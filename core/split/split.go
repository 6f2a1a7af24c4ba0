// Package split produces train/test folds over a series of a given length.
// Folds are returned in temporal order and every call to Split starts over.
package split

import (
	"fmt"
	"slices"
)

// Fold is one train/test partition expressed as positions into the series.
type Fold struct {
	Train []int
	Test  []int
}

// Splitter generates folds for a series of length n.
type Splitter interface {
	// Name is used in task identifiers.
	Name() string
	Split(n int) ([]Fold, error)
}

// ExpandingWindowSplitter grows the training window by StepLength at each
// fold, starting from InitialWindow observations. FH lists the forecast
// horizon steps relative to the cutoff (1 is the next observation).
type ExpandingWindowSplitter struct {
	InitialWindow int   `json:"initial_window"`
	StepLength    int   `json:"step_length"`
	FH            []int `json:"fh"`
}

// NewExpandingWindowSplitter returns a validated splitter.
func NewExpandingWindowSplitter(initialWindow, stepLength int, fh ...int) (*ExpandingWindowSplitter, error) {
	s := &ExpandingWindowSplitter{InitialWindow: initialWindow, StepLength: stepLength, FH: fh}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ExpandingWindowSplitter) Name() string { return "ExpandingWindowSplitter" }

// Validate checks window, step and horizon settings.
func (s *ExpandingWindowSplitter) Validate() error {
	if s.InitialWindow < 1 {
		return fmt.Errorf("initial_window must be >= 1, got %d", s.InitialWindow)
	}
	if s.StepLength < 1 {
		return fmt.Errorf("step_length must be >= 1, got %d", s.StepLength)
	}
	return validateFH(s.FH)
}

// Split returns the folds for a series of length n.
func (s *ExpandingWindowSplitter) Split(n int) ([]Fold, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return windows(n, s.InitialWindow, s.StepLength, s.FH, func(cutoff int) int { return 0 })
}

// SlidingWindowSplitter keeps a fixed WindowLength training window that
// moves forward by StepLength.
type SlidingWindowSplitter struct {
	WindowLength int   `json:"window_length"`
	StepLength   int   `json:"step_length"`
	FH           []int `json:"fh"`
}

// NewSlidingWindowSplitter returns a validated splitter.
func NewSlidingWindowSplitter(windowLength, stepLength int, fh ...int) (*SlidingWindowSplitter, error) {
	s := &SlidingWindowSplitter{WindowLength: windowLength, StepLength: stepLength, FH: fh}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SlidingWindowSplitter) Name() string { return "SlidingWindowSplitter" }

// Validate checks window, step and horizon settings.
func (s *SlidingWindowSplitter) Validate() error {
	if s.WindowLength < 1 {
		return fmt.Errorf("window_length must be >= 1, got %d", s.WindowLength)
	}
	if s.StepLength < 1 {
		return fmt.Errorf("step_length must be >= 1, got %d", s.StepLength)
	}
	return validateFH(s.FH)
}

// Split returns the folds for a series of length n.
func (s *SlidingWindowSplitter) Split(n int) ([]Fold, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	w := s.WindowLength
	return windows(n, w, s.StepLength, s.FH, func(cutoff int) int { return cutoff - w + 1 })
}

func validateFH(fh []int) error {
	if len(fh) == 0 {
		return fmt.Errorf("fh must contain at least one step")
	}
	for _, h := range fh {
		if h < 1 {
			return fmt.Errorf("fh steps must be >= 1, got %d", h)
		}
	}
	return nil
}

// windows walks cutoffs from window-1 while the furthest horizon step stays
// inside the series. start maps a cutoff to the first training position.
func windows(n, window, step int, fh []int, start func(cutoff int) int) ([]Fold, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative series length %d", n)
	}
	steps := slices.Clone(fh)
	slices.Sort(steps)
	steps = slices.Compact(steps)
	maxH := steps[len(steps)-1]

	var folds []Fold
	for cutoff := window - 1; cutoff+maxH < n; cutoff += step {
		lo := start(cutoff)
		train := make([]int, 0, cutoff-lo+1)
		for p := lo; p <= cutoff; p++ {
			train = append(train, p)
		}
		test := make([]int, len(steps))
		for i, h := range steps {
			test[i] = cutoff + h
		}
		folds = append(folds, Fold{Train: train, Test: test})
	}
	if len(folds) == 0 {
		return nil, fmt.Errorf("series of length %d too short for window %d and horizon %d", n, window, maxH)
	}
	return folds, nil
}
