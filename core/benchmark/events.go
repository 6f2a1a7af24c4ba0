package benchmark

import "time"

// EventKind identifies progress events.
type EventKind string

const (
	EventRunStarted    EventKind = "run_started"
	EventFoldCompleted EventKind = "fold_completed"
	EventPairCompleted EventKind = "pair_completed"
	EventPairFailed    EventKind = "pair_failed"
	EventRunCompleted  EventKind = "run_completed"
)

// Event reports benchmark progress on the event bus.
type Event struct {
	Kind        EventKind
	RunID       string
	TaskID      string
	EstimatorID string
	Fold        int
	Scores      map[string]float64
	Pairs       int
	Err         error
	Time        time.Time
}
