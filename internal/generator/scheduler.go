package generator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/nerrad567/fleetsim/internal/infrastructure/config"
	"github.com/nerrad567/fleetsim/internal/signal"
)

// Status represents the current state of the scheduler.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// SampleWriter persists one sample as one row. The production
// implementation is database.DB; tests inject fakes.
//
// Implementations must be safe for concurrent use and must isolate
// failure to the single write: an error return means this one sample
// was dropped, nothing more.
type SampleWriter interface {
	WriteSample(ctx context.Context, s signal.Sample) error
}

// Logger defines the logging interface for the scheduler.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Scheduler runs the three-stream emission loop.
//
// The zero value is not usable; construct with New. The scheduler
// itself is single-threaded: Run owns the RNG and the loop, while
// Status and Stats may be read concurrently.
type Scheduler struct {
	cfg    config.GeneratorConfig
	writer SampleWriter
	logger Logger
	rng    *rand.Rand

	mu     sync.Mutex
	status Status

	stats statCounters
}

// New creates a Scheduler with the given cadence configuration and
// sample writer. The RNG is seeded from the wall clock; tests may
// replace it with SetRand before calling Run.
func New(cfg config.GeneratorConfig, writer SampleWriter) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		writer: writer,
		logger: noopLogger{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		status: StatusIdle,
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(logger Logger) {
	s.logger = logger
}

// SetRand replaces the random source. Must be called before Run.
func (s *Scheduler) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Status returns the current lifecycle state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run executes the emission loop until ctx is cancelled.
//
// Each iteration:
//  1. sleeps a random coarse-tick interval,
//  2. emits one state_change sample,
//  3. with the configured probability, emits one error sample,
//  4. emits a burst of power samples at the burst interval.
//
// Cancellation is checked at every suspension point, including between
// burst samples, so a cancellation request is honoured within roughly
// one burst interval. Cancellation is expected shutdown: Run logs a
// warning and returns nil, never the context error.
//
// Write failures are logged and counted; the loop always continues
// with the next scheduled sample.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.status = StatusRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.status = StatusStopped
		s.mu.Unlock()
	}()

	s.logger.Info("signal generation started",
		"coarse_tick_min", s.cfg.CoarseTickMin(),
		"coarse_tick_max", s.cfg.CoarseTickMax(),
		"error_probability", s.cfg.ErrorProbability,
		"burst_size", s.cfg.BurstSize,
		"burst_interval", s.cfg.BurstInterval(),
	)

	for {
		// Coarse tick: state change every 1-5 seconds
		if err := sleepCtx(ctx, s.coarseInterval()); err != nil {
			return s.stopped()
		}
		s.emit(ctx, signal.NewStateChange(s.rng))

		// Sporadic error accompanying the tick
		if s.rng.Float64() < s.cfg.ErrorProbability {
			if ctx.Err() != nil {
				return s.stopped()
			}
			s.emit(ctx, signal.NewErrorCode(s.rng))
		}

		// Power burst: fixed sample count at fast spacing
		for i := 0; i < s.cfg.BurstSize; i++ {
			if ctx.Err() != nil {
				return s.stopped()
			}
			s.emit(ctx, signal.NewPowerReading(s.rng))

			if err := sleepCtx(ctx, s.cfg.BurstInterval()); err != nil {
				return s.stopped()
			}
		}
	}
}

// stopped logs the shutdown warning and converts cancellation into a
// clean return. Cancellation is a normal terminal transition, not an
// error.
func (s *Scheduler) stopped() error {
	s.logger.Warn("signal generation stopped")
	return nil
}

// emit writes one sample through the gateway, isolating any failure to
// this sample.
func (s *Scheduler) emit(ctx context.Context, smp signal.Sample) {
	if err := s.writer.WriteSample(ctx, smp); err != nil {
		s.stats.failed.Add(1)
		s.logger.Error("write failed, sample dropped",
			"signal_type", string(smp.Type),
			"error", err,
		)
		return
	}
	s.stats.add(smp.Type)
}

// coarseInterval draws a uniform random duration from
// [CoarseTickMin, CoarseTickMax].
func (s *Scheduler) coarseInterval() time.Duration {
	min := s.cfg.CoarseTickMin()
	max := s.cfg.CoarseTickMax()
	if max <= min {
		return min
	}
	return min + time.Duration(s.rng.Int63n(int64(max-min)+1))
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever is first.
// A non-positive duration still observes cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
