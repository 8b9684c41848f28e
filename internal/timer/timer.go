// Package timer implements the round countdown. It holds no scheduling primitive:
// the owner calls Tick on its own cadence.
package timer

import (
	"time"

	"github.com/benbjohnson/clock"
)

type State int

const (
	// Idle means the timer is stopped, either explicitly or after expiry.
	Idle State = iota
	Running
	Expired
)

type TickResult struct {
	State     State
	Remaining time.Duration
}

type Timer struct {
	clock    clock.Clock
	duration time.Duration
	started  time.Time
	running  bool
}

func New(clk clock.Clock) *Timer {
	return &Timer{clock: clk}
}

// Start records the current instant and (re)arms the countdown.
func (that *Timer) Start(duration time.Duration) {
	that.duration = duration
	that.started = that.clock.Now()
	that.running = true
}

// Tick reports the remaining time at now. Elapsed time is counted in whole seconds.
// The first tick at or past the deadline stops the timer and reports Expired.
func (that *Timer) Tick(now time.Time) TickResult {
	if !that.running {
		return TickResult{State: Idle}
	}

	remaining := that.remaining(now)
	if remaining <= 0 {
		that.running = false
		return TickResult{State: Expired}
	}

	return TickResult{State: Running, Remaining: remaining}
}

// Remaining is Tick without side effects.
func (that *Timer) Remaining(now time.Time) time.Duration {
	if !that.running {
		return 0
	}

	return max(that.remaining(now), 0)
}

func (that *Timer) Stop() {
	that.running = false
}

func (that *Timer) IsRunning() bool {
	return that.running
}

func (that *Timer) Duration() time.Duration {
	return that.duration
}

func (that *Timer) remaining(now time.Time) time.Duration {
	elapsed := now.Sub(that.started).Truncate(time.Second)
	return that.duration - elapsed
}
