package generator

import (
	"sync/atomic"

	"github.com/nerrad567/fleetsim/internal/signal"
)

// statCounters tracks emission outcomes with atomic counters so that
// Stats() may be read while Run is emitting.
type statCounters struct {
	stateChanges  atomic.Uint64
	errorCodes    atomic.Uint64
	powerReadings atomic.Uint64
	failed        atomic.Uint64
}

func (c *statCounters) add(t signal.Type) {
	switch t {
	case signal.TypeStateChange:
		c.stateChanges.Add(1)
	case signal.TypeError:
		c.errorCodes.Add(1)
	case signal.TypePower:
		c.powerReadings.Add(1)
	}
}

// Stats is a point-in-time snapshot of emission outcomes.
type Stats struct {
	// StateChanges, ErrorCodes and PowerReadings count successfully
	// persisted samples per signal class.
	StateChanges  uint64
	ErrorCodes    uint64
	PowerReadings uint64

	// Failed counts dropped samples across all classes.
	Failed uint64
}

// Written returns the total number of persisted samples.
func (s Stats) Written() uint64 {
	return s.StateChanges + s.ErrorCodes + s.PowerReadings
}

// Stats returns a snapshot of the scheduler's emission counters.
// Safe to call concurrently with Run.
func (s *Scheduler) Stats() Stats {
	return Stats{
		StateChanges:  s.stats.stateChanges.Load(),
		ErrorCodes:    s.stats.errorCodes.Load(),
		PowerReadings: s.stats.powerReadings.Load(),
		Failed:        s.stats.failed.Load(),
	}
}
