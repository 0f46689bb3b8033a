// Package generator drives the signal emission loop for FleetSim.
//
// The scheduler interleaves three emission streams until cancelled:
//
//   - state_change: one sample per coarse tick (random 1-5s spacing)
//   - error: probabilistically accompanies a coarse tick (10% default)
//   - power: a fixed-size burst (100 samples at 10ms spacing) after
//     each coarse tick, approximating one second of high-frequency
//     telemetry
//
// Generation is best-effort: a failed write is logged, counted, and
// dropped; the next scheduled sample is still attempted. Cancellation
// is cooperative and observed between samples, including inside a
// burst, so shutdown latency is bounded by one burst interval rather
// than a full coarse tick.
//
// The scheduler is single-threaded, but its collaborators (the sample
// writer backed by the shared connection pool) are safe for concurrent
// use, so the streams could be split into independent tasks without
// changing the write path.
package generator
