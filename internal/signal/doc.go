// Package signal defines the sample domain for FleetSim.
//
// A simulated fleet emits three signal classes, each with its own value
// domain and cadence:
//
//   - state_change: binary transitions (0 or 1), one every few seconds
//   - error: sporadic integer error codes in [1, 100]
//   - power: high-frequency power readings in [100.0, 500.0) watts
//
// The value generators are pure functions of an injected *rand.Rand so
// that value-domain properties are directly testable. Timestamps are
// assigned by the write gateway at persistence time, not at generation
// time.
package signal
