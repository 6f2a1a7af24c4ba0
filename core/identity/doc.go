// Package identity turns user supplied entities into stable string
// identifiers of the form "<TypeTag>-v<N>".
//
// A single entity, a list of entities or an explicit id -> entity mapping
// can be resolved:
//
//	r := identity.NewResolver[prediction.Forecaster](nil)
//	entries := r.List([]prediction.Forecaster{naive, naive2, trend})
//	// NaiveForecaster-v1, NaiveForecaster-v2, TrendForecaster-v1
package identity
