// Package twinkle starts short brightness or saturation pulses on random
// pixels at a configured rate.
//
// The pixel indexes are held as a permutation in which the first activeCount
// entries are twinkling and the rest are idle. Starting or stopping a pixel
// swaps a single entry across that boundary.
package twinkle

import (
	"fmt"
	"math/rand"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
)

// Mode selects what a twinkle modulates
type Mode int

const (
	// LowerValue starts at full brightness and dips to the level
	LowerValue Mode = iota
	// RaiseValue starts at the level and peaks at full brightness
	RaiseValue
	// RaiseSaturationValue raises saturation from zero with value as RaiseValue
	RaiseSaturationValue
)

const maxMode = RaiseSaturationValue

func (m Mode) String() string {
	switch m {
	case LowerValue:
		return "lower-value"
	case RaiseValue:
		return "raise-value"
	case RaiseSaturationValue:
		return "raise-saturation-value"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

const (
	OptEnabled  = "twinkle.enabled"
	OptNumber   = "twinkle.number"
	OptPeriod   = "twinkle.period"
	OptDuration = "twinkle.duration"
	OptLevel    = "twinkle.level"
	OptMode     = "twinkle.mode"
)

func Schema(enabled bool) config.Schema {
	return config.Schema{
		OptEnabled:  config.BoolOption(enabled),
		OptNumber:   config.S32Option(2),   // per 100 LEDs
		OptPeriod:   config.S32Option(250), // ms between starting "number" twinkles
		OptDuration: config.S32Option(450), // ms per twinkle
		OptLevel:    config.FloatOption(0.2),
		OptMode:     config.S32Option(int32(LowerValue)),
	}
}

type Settings struct {
	Enabled    bool
	Number     int
	PeriodMS   int
	DurationMS int
	Level      float64
	Mode       Mode
}

// SettingsFrom reads the twinkle options, writing corrected values back
func SettingsFrom(vals *config.Values) (s Settings) {
	s = Settings{
		Enabled:    vals.Bool(OptEnabled),
		Number:     int(vals.Int(OptNumber)),
		PeriodMS:   int(vals.Int(OptPeriod)),
		DurationMS: int(vals.Int(OptDuration)),
		Level:      vals.Float(OptLevel),
		Mode:       Mode(vals.Int(OptMode)),
	}
	if s.Mode < LowerValue || s.Mode > maxMode {
		s.Mode = LowerValue
		vals.SetInt(OptMode, int32(s.Mode))
	}
	if s.Number < 0 || s.Number > 100 {
		s.Number = clampInt(s.Number, 0, 100)
		vals.SetInt(OptNumber, int32(s.Number))
	}
	if s.PeriodMS < 0 {
		s.PeriodMS = 0
		vals.SetInt(OptPeriod, 0)
	}
	if s.DurationMS < 0 {
		s.DurationMS = 0
		vals.SetInt(OptDuration, 0)
	}
	if !(s.Level >= 0) || s.Level > 1 {
		if s.Level > 1 {
			s.Level = 1
		} else {
			s.Level = 0
		}
		vals.SetFloat(OptLevel, s.Level)
	}
	return s
}

// Overlay is the state of one twinkle effect
type Overlay struct {
	settings Settings
	length   int
	rand     *rand.Rand

	maxCount    int
	activeCount int
	positions   []int
	startTimes  []uint64

	levelRange       float64
	inactiveMultiple float64
	interval         uint64 // 0 when no twinkles are ever started
	duration         uint64
	last             uint64
}

// Configure derives every cached quantity and clears all twinkles, now is the
// tick from which new twinkles are timed
func (o *Overlay) Configure(s Settings, length int, now uint64, rnd *rand.Rand) {
	if length < 0 {
		length = 0
	}
	o.settings = s
	o.length = length
	o.rand = rnd
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(int64(now)))
	}

	o.maxCount = 0
	if length > 0 {
		o.maxCount = clampInt(roundDiv(length*s.Number, 100), 1, length)
	}
	o.activeCount = 0
	o.startTimes = make([]uint64, o.maxCount)
	o.positions = make([]int, length)
	for i := range o.positions {
		o.positions[i] = i
	}

	o.levelRange = 1 - s.Level
	o.inactiveMultiple = s.Level

	o.interval = 0
	if s.Number > 0 {
		o.interval = uint64(maxInt(1, s.PeriodMS*1000/s.Number))
	}
	o.duration = uint64(maxInt(2, s.DurationMS*1000))
	o.last = now
}

func (o *Overlay) Enabled() bool { return o.settings.Enabled }

func (o *Overlay) Settings() Settings { return o.settings }

func (o *Overlay) Length() int { return o.length }

func (o *Overlay) MaxCount() int { return o.maxCount }

func (o *Overlay) ActiveCount() int { return o.activeCount }

// Active returns the pixel indexes currently twinkling
func (o *Overlay) Active() []int {
	return append([]int(nil), o.positions[:o.activeCount]...)
}

// StartTime is the tick at which the twinkle in the given active slot began
func (o *Overlay) StartTime(slot int) uint64 { return o.startTimes[slot] }

// start moves up to count random idle pixels into the active prefix
func (o *Overlay) start(now uint64, count int) {
	for i := 0; i < count; i++ {
		if o.activeCount >= o.maxCount {
			return
		}

		n := o.activeCount + o.rand.Intn(o.length-o.activeCount)
		o.positions[o.activeCount], o.positions[n] = o.positions[n], o.positions[o.activeCount]
		o.startTimes[o.activeCount] = now
		o.activeCount++
	}
}

// stop removes finished slots, which must be in descending order, by swapping
// each with the last active slot
func (o *Overlay) stop(slots []int) {
	for _, n := range slots {
		if o.activeCount <= 0 {
			panic("twinkle stop with no active twinkles")
		}
		o.activeCount--

		last := o.activeCount
		o.positions[last], o.positions[n] = o.positions[n], o.positions[last]
		o.startTimes[last], o.startTimes[n] = o.startTimes[n], o.startTimes[last]
	}
}

// Change starts twinkles for every whole interval elapsed since the last
// start, bounded by the remaining capacity
func (o *Overlay) Change(now uint64) {
	if !o.settings.Enabled || o.interval == 0 {
		return
	}
	elapsed := now - o.last
	if elapsed < o.interval {
		return
	}
	if o.activeCount >= o.maxCount {
		o.last = now
		return
	}
	count := elapsed / o.interval
	capacity := uint64(o.maxCount - o.activeCount)
	if count < capacity {
		o.start(now, int(count))
	} else {
		o.start(now, int(capacity))
	}
	o.last += count * o.interval
}

// envelope is the position of a twinkle in its pulse, 0 at the level and 1
// at full strength
func (o *Overlay) envelope(elapsed uint64) float64 {
	half := o.duration / 2
	if o.settings.Mode == LowerValue {
		if elapsed < half {
			return float64(half-elapsed-1) / float64(half)
		}
		return float64(elapsed-half) / float64(half)
	}
	if elapsed < half {
		return float64(elapsed+1) / float64(half)
	}
	return float64(o.duration-elapsed) / float64(half)
}

// ApplyMask returns a copy of values with the twinkles at now applied and
// stops twinkles that have finished. Changed pixels are returned in HSV form.
func (o *Overlay) ApplyMask(values []colour.Colour, now uint64) (masked []colour.Colour) {
	masked = make([]colour.Colour, len(values))
	copy(masked, values)
	if !o.settings.Enabled {
		return masked
	}

	var stopped []int
	for n := o.activeCount - 1; n >= 0; n-- {
		elapsed := now - o.startTimes[n]
		if elapsed >= o.duration {
			stopped = append(stopped, n)
			continue
		}

		pos := o.positions[n]
		if pos >= len(masked) {
			continue
		}
		env := o.envelope(elapsed)
		hsv := masked[pos].HSV()
		if o.settings.Mode == RaiseSaturationValue {
			hsv.S *= env
		}
		hsv.V *= o.settings.Level + o.levelRange*env
		masked[pos] = hsv
	}
	o.stop(stopped)

	if o.settings.Mode == LowerValue {
		return masked
	}
	for _, pos := range o.positions[o.activeCount:] {
		if pos >= len(masked) {
			continue
		}
		hsv := masked[pos].HSV()
		if o.settings.Mode == RaiseSaturationValue {
			hsv.S = 0
		}
		hsv.V *= o.inactiveMultiple
		masked[pos] = hsv
	}
	return masked
}

// roundDiv divides non negative a by b, rounding halves to even
func roundDiv(a, b int) int {
	q, r := a/b, a%b
	if 2*r > b || (2*r == b && q%2 == 1) {
		q++
	}
	return q
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
