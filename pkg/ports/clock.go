package ports

import "time"

// Clock is the engine's only source of time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// NumberSource yields raw 64-bit values for confirmation numbers.
// Values need not be cryptographically strong.
type NumberSource interface {
	Uint64() uint64
}
