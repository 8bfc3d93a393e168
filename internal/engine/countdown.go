package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is the subset of *time.Timer a Countdown needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so countdowns can be driven in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ExamDuration converts an exam duration in minutes to the countdown length.
func ExamDuration(minutes int) time.Duration {
	return time.Duration(minutes) * 60 * time.Second
}

// Countdown invokes its callback once when the deadline passes. After Stop
// or after the first fire it never invokes the callback again.
type Countdown struct {
	clock    Clock
	deadline time.Time
	timer    Timer
	once     sync.Once
	stopped  atomic.Bool
	onExpire func()
}

// StartCountdown arms a countdown of length d.
func StartCountdown(clock Clock, d time.Duration, onExpire func()) *Countdown {
	c := &Countdown{
		clock:    clock,
		deadline: clock.Now().Add(d),
		onExpire: onExpire,
	}
	c.timer = clock.AfterFunc(d, c.fire)
	return c
}

func (c *Countdown) fire() {
	c.once.Do(func() {
		if !c.stopped.Load() {
			c.onExpire()
		}
	})
}

// Stop disarms the countdown. Safe to call more than once and from inside
// the callback.
func (c *Countdown) Stop() {
	c.stopped.Store(true)
	c.timer.Stop()
}

// Remaining returns the time left, never negative.
func (c *Countdown) Remaining() time.Duration {
	r := c.deadline.Sub(c.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}

// Deadline returns the instant the countdown expires.
func (c *Countdown) Deadline() time.Time {
	return c.deadline
}
