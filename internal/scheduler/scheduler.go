// Package scheduler runs one-shot and periodic actions against an injectable
// clock, so timers can be driven by a fake clock in tests.
package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Job is a handle to a scheduled action.
type Job interface {
	// Cancel prevents future runs. It reports whether a pending run was stopped.
	Cancel() bool
}

// Scheduler schedules actions on a clock.
type Scheduler interface {
	// At runs fn once at the given instant (immediately if it already passed).
	At(at time.Time, fn func()) Job
	// Every runs fn repeatedly, interval apart, until the job is cancelled.
	Every(interval time.Duration, fn func()) Job
	// Now returns the scheduler clock's current time.
	Now() time.Time
}

// ClockScheduler implements Scheduler on top of a clockwork.Clock. Actions run
// on their own goroutine, never on the caller's.
type ClockScheduler struct {
	clock clockwork.Clock
}

// New creates a ClockScheduler. Pass clockwork.NewRealClock() in production.
func New(clock clockwork.Clock) *ClockScheduler {
	return &ClockScheduler{clock: clock}
}

// Now returns the current time of the underlying clock.
func (s *ClockScheduler) Now() time.Time {
	return s.clock.Now()
}

// At schedules fn to run once at the given instant.
func (s *ClockScheduler) At(at time.Time, fn func()) Job {
	delay := at.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	return &oneShotJob{timer: s.clock.AfterFunc(delay, fn)}
}

// Every schedules fn to run every interval. The next run is armed only after
// the current one returns, so runs never overlap.
func (s *ClockScheduler) Every(interval time.Duration, fn func()) Job {
	job := &periodicJob{}

	var tick func()
	tick = func() {
		fn()

		job.mu.Lock()
		defer job.mu.Unlock()
		if job.cancelled {
			return
		}
		job.timer = s.clock.AfterFunc(interval, tick)
	}

	job.mu.Lock()
	job.timer = s.clock.AfterFunc(interval, tick)
	job.mu.Unlock()

	return job
}

type oneShotJob struct {
	timer clockwork.Timer
}

func (j *oneShotJob) Cancel() bool {
	return j.timer.Stop()
}

type periodicJob struct {
	mu        sync.Mutex
	timer     clockwork.Timer
	cancelled bool
}

func (j *periodicJob) Cancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancelled {
		return false
	}
	j.cancelled = true
	return j.timer.Stop()
}
