package phase

import (
	"math"
	"testing"
)

func TestCycle(t *testing.T) {
	c := NewCycle(1000)

	cases := []struct {
		tick     uint64
		index    uint64
		fraction float64
	}{
		{0, 0, 0},
		{250, 250, 0.25},
		{999, 999, 0.999},
		{1000, 0, 0},
		{123456, 456, 0.456},
	}
	for _, tc := range cases {
		if got := c.Index(tc.tick); got != tc.index {
			t.Errorf("tick %d: expected index %d, got %d", tc.tick, tc.index, got)
		}
		if got := c.Fraction(tc.tick); math.Abs(got-tc.fraction) > 1e-12 {
			t.Errorf("tick %d: expected fraction %f, got %f", tc.tick, tc.fraction, got)
		}
	}
}

func TestCycleClamps(t *testing.T) {
	for _, d := range []int64{-5, 0, 1} {
		if c := NewCycle(d); c.Duration != MinDuration {
			t.Errorf("duration %d: expected clamp to %d, got %d", d, MinDuration, c.Duration)
		}
	}

	// A zero value Cycle must not divide by zero
	var c Cycle
	if got := c.Index(5); got != 1 {
		t.Errorf("expected 5 %% 2 = 1, got %d", got)
	}
}

func TestElapsedWraps(t *testing.T) {
	a := uint64(math.MaxUint64 - 9)
	b := uint64(5)
	if got := Elapsed(a, b); got != 15 {
		t.Errorf("expected 15 ticks across the wrap, got %d", got)
	}
	if got := Elapsed(100, 250); got != 150 {
		t.Errorf("expected 150, got %d", got)
	}
}

func TestModes(t *testing.T) {
	m := NewManual(5000)
	m.Wall = 9000
	m.Latency = 100

	if got := Monotonic.NowUS(m); got != 5000 {
		t.Errorf("expected monotonic 5000, got %d", got)
	}
	if got := Monotonic.NextUS(m); got != 5100 {
		t.Errorf("expected next monotonic 5100, got %d", got)
	}
	if got := WallClock.NextUS(m); got != 9100 {
		t.Errorf("expected next wall clock 9100, got %d", got)
	}
	if got := WallClock.NextMS(m); got != 9 {
		t.Errorf("expected next wall clock 9ms, got %d", got)
	}
	if ModeFor(true) != WallClock || ModeFor(false) != Monotonic {
		t.Error("unexpected mode mapping")
	}

	m.Advance(1000)
	if m.Ticks64MS() != 6 || m.TimeMS() != 10 {
		t.Errorf("unexpected clocks after advance: %d %d", m.Ticks64MS(), m.TimeMS())
	}
}
