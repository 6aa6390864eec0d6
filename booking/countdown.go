package booking

import (
	"fmt"
	"time"
)

// DefaultPaymentWindow applies when the payment carries no expiry time.
const DefaultPaymentWindow = 120 * time.Second

type CountdownState int

const (
	CountdownRunning CountdownState = iota
	CountdownExpired
)

func (s CountdownState) String() string {
	if s == CountdownExpired {
		return "EXPIRED"
	}
	return "RUNNING"
}

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelCritical
)

// Countdown tracks the seconds left to pay. It is advanced by Tick, once
// per second, and fires its expiry action exactly once.
type Countdown struct {
	remaining int
	fired     bool
	onExpire  func()
}

func NewCountdown(seconds int, onExpire func()) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds, onExpire: onExpire}
}

// CountdownUntil starts a countdown ending at expiry. A zero expiry uses
// DefaultPaymentWindow.
func CountdownUntil(expiry time.Time, now time.Time, onExpire func()) *Countdown {
	if expiry.IsZero() {
		return NewCountdown(int(DefaultPaymentWindow/time.Second), onExpire)
	}
	left := expiry.Sub(now)
	if left < 0 {
		left = 0
	}
	return NewCountdown(int(left/time.Second), onExpire)
}

// Tick advances one second and reports whether this tick expired the
// countdown. Ticks after expiry do nothing.
func (c *Countdown) Tick() bool {
	if c.fired {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		return false
	}
	c.fired = true
	if c.onExpire != nil {
		c.onExpire()
	}
	return true
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) State() CountdownState {
	if c.remaining <= 0 {
		return CountdownExpired
	}
	return CountdownRunning
}

func (c *Countdown) Expired() bool {
	return c.State() == CountdownExpired
}

func (c *Countdown) Level() Level {
	return LevelFor(c.remaining)
}

// LevelFor maps seconds left to a display urgency.
func LevelFor(seconds int) Level {
	switch {
	case seconds <= 30:
		return LevelCritical
	case seconds <= 60:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// Format renders the remaining time as MM:SS.
func (c *Countdown) Format() string {
	return FormatSeconds(c.remaining)
}

func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
