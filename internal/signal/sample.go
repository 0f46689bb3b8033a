package signal

import (
	"math/rand"
	"time"
)

// Type identifies the signal class of a sample.
// The string value is persisted verbatim in the signal_type column.
type Type string

const (
	// TypeStateChange is a discrete state transition (value 0 or 1).
	TypeStateChange Type = "state_change"

	// TypeError is a sporadic error code (integer value in [1, 100]).
	TypeError Type = "error"

	// TypePower is a high-frequency power reading (value in [100.0, 500.0)).
	TypePower Type = "power"
)

// Valid reports whether t is one of the known signal classes.
func (t Type) Valid() bool {
	switch t {
	case TypeStateChange, TypeError, TypePower:
		return true
	}
	return false
}

// Value domain bounds per signal class.
const (
	// ErrorCodeMin and ErrorCodeMax bound the inclusive error code range.
	ErrorCodeMin = 1
	ErrorCodeMax = 100

	// PowerMin and PowerMax bound the half-open power reading range [min, max).
	PowerMin = 100.0
	PowerMax = 500.0
)

// Sample is one emitted observation.
//
// Timestamp is zero until the write gateway stamps it at persistence
// time; per-process timestamps are monotonically non-decreasing but not
// required to be strictly increasing across signal classes.
type Sample struct {
	Type      Type
	Value     float64
	Timestamp time.Time
}

// NewStateChange draws a state_change sample: value uniform over {0, 1}.
func NewStateChange(rng *rand.Rand) Sample {
	return Sample{
		Type:  TypeStateChange,
		Value: float64(rng.Intn(2)),
	}
}

// NewErrorCode draws an error sample: integer value uniform over [1, 100].
func NewErrorCode(rng *rand.Rand) Sample {
	return Sample{
		Type:  TypeError,
		Value: float64(rng.Intn(ErrorCodeMax-ErrorCodeMin+1) + ErrorCodeMin),
	}
}

// NewPowerReading draws a power sample: value uniform over [100.0, 500.0).
func NewPowerReading(rng *rand.Rand) Sample {
	return Sample{
		Type:  TypePower,
		Value: PowerMin + rng.Float64()*(PowerMax-PowerMin),
	}
}
