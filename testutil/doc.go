// Package testutil generates reproducible signals for tests.
//
//	rng := testutil.NewRNG(42)
//	u := rng.Uniform(1024) // [0, 1)
//	b := rng.Bipolar(1024) // [-1, 1)
//	tone := testutil.Sine(4000, 440, 15720, 0.8)
package testutil
