package utils

import "time"

// Timer is a stopwatch. [NewTimer] starts it; [Timer.Stop] freezes the
// elapsed time.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop records the time elapsed since the last start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration recorded by the last Stop, or zero.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}

// Milliseconds returns GetDuration as fractional milliseconds, the unit of
// the duration histograms.
func (t *Timer) Milliseconds() float64 {
	return float64(t.duration.Microseconds()) / 1000
}
