// Package phase converts free running tick counters into positions within a
// repeating animation cycle. It never owns a clock, the host supplies them
// through Source.
package phase

// Source is the host clock surface. Monotonic ticks run from an arbitrary
// origin and are stable across suspensions, wall clock ticks follow the time
// of day. The Next variants give the time at which the next frame will be
// displayed so animations stay phase accurate relative to the pixels.
type Source interface {
	Ticks64US() uint64
	Ticks64MS() uint64
	NextTicks64US() uint64
	NextTicks64MS() uint64

	TimeUS() uint64
	TimeMS() uint64
	NextTimeUS() uint64
	NextTimeMS() uint64
}

// Mode selects which tick source an animation follows
type Mode int

const (
	// Monotonic gives deterministic phase continuity
	Monotonic Mode = iota
	// WallClock ties the phase to the real time of day
	WallClock
)

// ModeFor maps a "real time" option onto a Mode
func ModeFor(realTime bool) Mode {
	if realTime {
		return WallClock
	}
	return Monotonic
}

func (m Mode) String() string {
	if m == WallClock {
		return "wall-clock"
	}
	return "monotonic"
}

// NowUS is the current tick in microseconds for the mode
func (m Mode) NowUS(src Source) uint64 {
	if m == WallClock {
		return src.TimeUS()
	}
	return src.Ticks64US()
}

// NextUS is the next output tick in microseconds for the mode
func (m Mode) NextUS(src Source) uint64 {
	if m == WallClock {
		return src.NextTimeUS()
	}
	return src.NextTicks64US()
}

// NextMS is the next output tick in milliseconds for the mode
func (m Mode) NextMS(src Source) uint64 {
	if m == WallClock {
		return src.NextTimeMS()
	}
	return src.NextTicks64MS()
}

// MinDuration is the shortest cycle accepted, shorter ones are clamped
const MinDuration = 2

// Cycle is a repeating duration in ticks
type Cycle struct {
	Duration uint64
}

// NewCycle clamps the duration so that it is at least MinDuration
func NewCycle(duration int64) Cycle {
	if duration < MinDuration {
		duration = MinDuration
	}
	return Cycle{Duration: uint64(duration)}
}

func (c Cycle) duration() uint64 {
	if c.Duration < MinDuration {
		return MinDuration
	}
	return c.Duration
}

// Index is the position of tick within the cycle
func (c Cycle) Index(tick uint64) uint64 {
	return tick % c.duration()
}

// Fraction is the position of tick within the cycle in [0,1)
func (c Cycle) Fraction(tick uint64) float64 {
	d := c.duration()
	return float64(tick%d) / float64(d)
}

// Elapsed is the number of ticks from a to b, correct across counter wrap
func Elapsed(a, b uint64) uint64 {
	return b - a
}
