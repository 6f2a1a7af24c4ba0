package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/fcbench/core/benchmark"
	"github.com/kilianp07/fcbench/infra/logger"
	"github.com/kilianp07/fcbench/internal/eventbus"
)

// StartEventCollector subscribes to the benchmark event bus, counts events
// by kind on reg and logs failed pairs. It stops when the context is
// canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[benchmark.Event], reg prometheus.Registerer) error {
	if bus == nil {
		return nil
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fcbench_events_total",
		Help: "Benchmark progress events by kind",
	}, []string{"kind"}))
	if err != nil {
		return err
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				counter.WithLabelValues(string(ev.Kind)).Inc()
				if ev.Kind == benchmark.EventPairFailed {
					log.Warnf("pair %s / %s failed: %v", ev.TaskID, ev.EstimatorID, ev.Err)
				}
			}
		}
	}()
	return nil
}
