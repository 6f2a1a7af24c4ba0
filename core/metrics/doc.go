// Package metrics defines the sinks recording benchmark progress and
// results. Sinks are created from configuration through NewMetricsSink;
// several configured sinks are combined into a MultiSink. Concrete
// Prometheus and InfluxDB sinks register themselves from infra/metrics.
package metrics
