package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteGeneratorStats records a snapshot of the generator's emission
// counters as a single point.
//
// The write is non-blocking; points are batched and sent asynchronously.
// If the client is not connected the snapshot is silently discarded:
// telemetry must never slow down or fail the emission loop.
//
// Parameters:
//   - runID: Identifier for this generator process run (tag)
//   - stateChanges, errorCodes, powerReadings: Persisted samples per signal class
//   - failed: Dropped samples across all classes
func (c *Client) WriteGeneratorStats(runID string, stateChanges, errorCodes, powerReadings, failed uint64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"generator_stats",
		map[string]string{
			"run_id": runID,
		},
		map[string]interface{}{
			"state_changes":  int64(stateChanges),
			"error_codes":    int64(errorCodes),
			"power_readings": int64(powerReadings),
			"failed":         int64(failed),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoolStats records connection pool utilisation as a single point.
//
// Parameters:
//   - runID: Identifier for this generator process run (tag)
//   - acquired: Connections currently checked out of the pool
//   - total: Total connections currently held by the pool
func (c *Client) WritePoolStats(runID string, acquired, total int32) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"pool_stats",
		map[string]string{
			"run_id": runID,
		},
		map[string]interface{}{
			"acquired": int64(acquired),
			"total":    int64(total),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
