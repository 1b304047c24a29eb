package phase

import (
	"sync"
)

// Manual is a Source driven by hand, used for tests and for replaying
// recorded timings. Times are held in microseconds; the millisecond variants
// are derived.
type Manual struct {
	Monotonic uint64 // current monotonic tick
	Wall      uint64 // current wall clock tick
	Latency   uint64 // added to give the next output variants

	sync.Mutex
}

// NewManual starts both clocks at the same microsecond value
func NewManual(startUS uint64) *Manual {
	return &Manual{Monotonic: startUS, Wall: startUS}
}

// Advance moves both clocks forward, wrapping as the counters would
func (m *Manual) Advance(us uint64) {
	m.Lock()
	defer m.Unlock()

	m.Monotonic += us
	m.Wall += us
}

// Set moves both clocks to the given value
func (m *Manual) Set(us uint64) {
	m.Lock()
	defer m.Unlock()

	m.Monotonic = us
	m.Wall = us
}

func (m *Manual) read() (mono, wall, latency uint64) {
	m.Lock()
	defer m.Unlock()

	return m.Monotonic, m.Wall, m.Latency
}

func (m *Manual) Ticks64US() uint64 {
	mono, _, _ := m.read()
	return mono
}

func (m *Manual) Ticks64MS() uint64 { return m.Ticks64US() / 1000 }

func (m *Manual) NextTicks64US() uint64 {
	mono, _, latency := m.read()
	return mono + latency
}

func (m *Manual) NextTicks64MS() uint64 { return m.NextTicks64US() / 1000 }

func (m *Manual) TimeUS() uint64 {
	_, wall, _ := m.read()
	return wall
}

func (m *Manual) TimeMS() uint64 { return m.TimeUS() / 1000 }

func (m *Manual) NextTimeUS() uint64 {
	_, wall, latency := m.read()
	return wall + latency
}

func (m *Manual) NextTimeMS() uint64 { return m.NextTimeUS() / 1000 }
