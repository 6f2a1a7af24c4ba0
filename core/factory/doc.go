// Package factory provides a small generic registry used to build benchmark
// components from configuration. Components are described by a type name
// and a map of raw settings; factories decode the settings into typed
// structs and return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[split.Splitter]()
//	reg.Register("expanding", func(conf map[string]any) (split.Splitter, error) {
//	    var s split.ExpandingWindowSplitter
//	    if err := factory.Decode(conf, &s); err != nil {
//	        return nil, err
//	    }
//	    return &s, s.Validate()
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "expanding", Conf: map[string]any{"initial_window": 1}})
package factory
