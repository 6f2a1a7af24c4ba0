package benchmark

import (
	"github.com/google/uuid"

	"github.com/kilianp07/fcbench/core/identity"
	"github.com/kilianp07/fcbench/core/logger"
	"github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/core/report"
	"github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/internal/eventbus"
	"github.com/kilianp07/fcbench/pkg/export"
)

// Option configures a Benchmark.
type Option func(*Benchmark)

// WithLogger sets the logger. The default discards logs.
func WithLogger(l logger.Logger) Option {
	return func(b *Benchmark) {
		if l != nil {
			b.log = l
		}
	}
}

// WithSink records fold and pair metrics.
func WithSink(s metrics.MetricsSink) Option {
	return func(b *Benchmark) {
		if s != nil {
			b.sink = s
		}
	}
}

// WithStore appends a summary of every run to the store.
func WithStore(s results.Store) Option {
	return func(b *Benchmark) { b.store = s }
}

// WithEventBus publishes progress events.
func WithEventBus(bus *eventbus.TypedBus[Event]) Option {
	return func(b *Benchmark) { b.bus = bus }
}

// WithNaming replaces the identifier naming strategy.
func WithNaming(n identity.NamingStrategy) Option {
	return func(b *Benchmark) {
		if n != nil {
			b.naming = n
		}
	}
}

// WithContinueOnFailure records failing pairs as error rows instead of
// aborting the run.
func WithContinueOnFailure(v bool) Option {
	return func(b *Benchmark) { b.continueOnFailure = v }
}

// WithParallelism evaluates up to n pairs concurrently. Rows keep the
// registration order regardless of completion order. When several pairs
// fail, the run reports the failure of the earliest registered one.
func WithParallelism(n int) Option {
	return func(b *Benchmark) {
		if n > 0 {
			b.parallelism = n
		}
	}
}

// WithWriter replaces the report file writer.
func WithWriter(w func(path string, tbl *report.Table) error) Option {
	return func(b *Benchmark) {
		if w != nil {
			b.write = w
		}
	}
}

// WithRunID replaces the run identifier generator.
func WithRunID(f func() string) Option {
	return func(b *Benchmark) {
		if f != nil {
			b.newRunID = f
		}
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func defaults(b *Benchmark) {
	b.naming = identity.DefaultNaming
	b.log = nopLogger{}
	b.sink = metrics.NopSink{}
	b.parallelism = 1
	b.write = export.WriteFile
	b.newRunID = uuid.NewString
}
