// Package infra contains technical adapters such as MQTT publishers,
// metrics exporters and remote data loaders. These packages should depend
// only on the interfaces defined in the core packages.
package infra
