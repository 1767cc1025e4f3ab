package ecs

import "time"

// Time is the clock resource. The scheduler is its only writer: it advances
// Delta, Elapsed and Tick before every update tick. Systems read it through
// UpdateFrame.Time or NewRes[Time].
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Tick    uint64
}

// DeltaSeconds returns Delta in seconds.
func (t Time) DeltaSeconds() float64 {
	return t.Delta.Seconds()
}

// TimerMode selects whether a Timer fires once or keeps repeating.
type TimerMode uint8

const (
	TimerOnce TimerMode = iota
	TimerRepeating
)

// Timer accumulates frame deltas and reports when its duration has elapsed.
type Timer struct {
	duration     time.Duration
	mode         TimerMode
	elapsed      time.Duration
	finished     bool
	justFinished int
}

// NewTimer creates a timer that fires after d.
func NewTimer(d time.Duration, mode TimerMode) Timer {
	return Timer{duration: d, mode: mode}
}

// Tick advances the timer by dt and reports whether it finished during this call.
// A repeating timer keeps the overshoot for the next interval and may finish
// more than once in a single large step; see TimesFinished.
func (t *Timer) Tick(dt time.Duration) bool {
	t.justFinished = 0

	if t.mode == TimerOnce {
		if t.finished {
			return false
		}
		t.elapsed += dt
		if t.elapsed >= t.duration {
			t.elapsed = t.duration
			t.finished = true
			t.justFinished = 1
		}
		return t.finished
	}

	t.elapsed += dt
	if t.elapsed < t.duration {
		t.finished = false
		return false
	}
	if t.duration <= 0 {
		t.elapsed = 0
		t.justFinished = 1
	} else {
		t.justFinished = int(t.elapsed / t.duration)
		t.elapsed %= t.duration
	}
	t.finished = true
	return true
}

// JustFinished reports whether the last Tick finished the timer.
func (t *Timer) JustFinished() bool {
	return t.justFinished > 0
}

// TimesFinished returns how many intervals the last Tick completed.
func (t *Timer) TimesFinished() int {
	return t.justFinished
}

// Finished reports whether a one-shot timer has completed, or whether a
// repeating timer completed an interval on the last Tick.
func (t *Timer) Finished() bool {
	return t.finished
}

// Elapsed returns the time accumulated towards the current interval.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Duration returns the configured interval.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Reset clears the accumulated time and finished state.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.justFinished = 0
}
