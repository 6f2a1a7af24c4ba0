package metrics

import "time"

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordResult forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordResult(ev ResultEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordResult(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFold forwards fold events to sinks supporting them.
func (m *MultiSink) RecordFold(ev FoldEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FoldRecorder); ok {
			if err := rec.RecordFold(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRunEnd forwards the end of a run to sinks supporting it.
func (m *MultiSink) RecordRunEnd(runID string, rows int, elapsed time.Duration) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RunRecorder); ok {
			if err := rec.RecordRunEnd(runID, rows, elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}
