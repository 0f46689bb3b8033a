package generator

import "errors"

// Sentinel errors for the scheduler.
var (
	// ErrAlreadyRunning is returned by Run when the scheduler has
	// already been started. The lifecycle is one-shot: Idle to Running
	// to Stopped, with no way back.
	ErrAlreadyRunning = errors.New("generator: scheduler already running")
)
