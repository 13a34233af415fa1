// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ClientSimulator: plays the client and bootnode binaries inside a docker.MockRuntime
//   - NewConfig: a config rooted in a temporary directory with no start delays
//   - NetworkBuilder: fluent builder for network definitions
//
// Usage:
//
//	cfg := testutil.NewConfig(t)
//	rt := docker.NewMockRuntime()
//	sim := testutil.NewClientSimulator()
//	rt.OnStart = sim.OnStart
package testing
