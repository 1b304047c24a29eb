// Package sweep implements a bright band with two fading skirts that moves
// back and forth along the strip. The band moves one position per interval
// and never by a fraction of one, so its speed stays exact however
// irregularly it is polled.
package sweep

import (
	"math"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
)

// DurationPerLEDUS gives a 1x speed of 1500ms for 50 LEDs
const DurationPerLEDUS = 30 * 1000

const (
	OptEnabled      = "sweep.enabled"
	OptActiveLength = "sweep.active_length"
	OptFadeLength   = "sweep.fade_length"
	OptFadeRate1    = "sweep.fade_rate1"
	OptFadeRate     = "sweep.fade_rate"
	OptSpeed        = "sweep.speed"
	OptDuration     = "sweep.duration"
	OptRealTime     = "sweep.real_time"
)

// Schema returns the sweep options, enabled sets the default of sweep.enabled
func Schema(enabled bool) config.Schema {
	return config.Schema{
		OptEnabled:      config.BoolOption(enabled),
		OptActiveLength: config.FloatOption(12), // percent, split either side of the centre
		OptFadeLength:   config.FloatOption(16), // percent, per skirt
		OptFadeRate1:    config.FloatOption(0.5),
		OptFadeRate:     config.FloatOption(0.75),
		OptSpeed:        config.FloatOption(1),
		OptDuration:     config.NullS32Option(), // ms, overrides speed
		OptRealTime:     config.BoolOption(true),
	}
}

// Settings are the validated sweep options
type Settings struct {
	Enabled       bool
	ActivePercent float64
	FadePercent   float64
	FadeRate1     float64
	FadeRate      float64
	Speed         float64
	DurationMS    int32
	HasDuration   bool
	RealTime      bool
}

// SettingsFrom reads the sweep options, writing corrected values back
func SettingsFrom(vals *config.Values) (s Settings) {
	s = Settings{
		Enabled:       vals.Bool(OptEnabled),
		ActivePercent: clampFloat(vals, OptActiveLength, 0, 100, 12),
		FadePercent:   clampFloat(vals, OptFadeLength, 0, 100, 16),
		FadeRate1:     clampFloat(vals, OptFadeRate1, 0, 1, 0.5),
		FadeRate:      clampFloat(vals, OptFadeRate, 0, 1, 0.75),
		RealTime:      vals.Bool(OptRealTime),
	}
	s.Speed = vals.Float(OptSpeed)
	if math.IsNaN(s.Speed) || math.IsInf(s.Speed, 0) {
		s.Speed = 1
		vals.SetFloat(OptSpeed, s.Speed)
	}
	s.DurationMS, s.HasDuration = vals.OptionalInt(OptDuration)
	return s
}

func clampFloat(vals *config.Values, name string, lo, hi, def float64) float64 {
	v := vals.Float(name)
	c := v
	switch {
	case math.IsNaN(v):
		c = def
	case v < lo:
		c = lo
	case v > hi:
		c = hi
	}
	if c != v {
		vals.SetFloat(name, c)
	}
	return c
}

// Overlay is the state of one sweep
type Overlay struct {
	settings Settings
	length   int
	mode     phase.Mode

	activeLength int
	fadeLength   int
	totalLength  int
	sweepLength  int
	cycle        phase.Cycle
	interval     uint64
	multipliers  []float64

	currentPos int
	lastUpdate uint64
	started    bool
}

// Configure derives every cached quantity and restarts the sweep
func (o *Overlay) Configure(s Settings, length int) {
	if length < 0 {
		length = 0
	}
	o.settings = s
	o.length = length
	o.mode = phase.ModeFor(s.RealTime)

	o.activeLength = maxInt(1, int(float64(length)*s.ActivePercent)/200)
	o.fadeLength = maxInt(0, int(float64(length)*s.FadePercent)/100)
	o.totalLength = o.activeLength + o.fadeLength
	o.sweepLength = maxInt(2, length-2*o.activeLength) + 1

	var cycleUS int64
	if s.HasDuration {
		cycleUS = int64(s.DurationMS) * 1000
	} else {
		cycleUS = int64(math.Min(math.Round(DurationPerLEDUS*float64(length)/math.Max(1e-10, s.Speed)), math.MaxInt64/2))
	}
	o.cycle = phase.NewCycle(cycleUS)

	steps := uint64(2 * o.sweepLength)
	o.interval = uint64(math.Round(float64(o.cycle.Duration) / float64(steps)))
	if o.interval < 1 {
		o.interval = 1
	}

	o.multipliers = make([]float64, o.fadeLength)
	for n := range o.multipliers {
		o.multipliers[n] = s.FadeRate1 * math.Pow(s.FadeRate, float64(n))
	}

	o.currentPos = 0
	o.lastUpdate = 0
	o.started = false
}

func (o *Overlay) Enabled() bool { return o.settings.Enabled }

func (o *Overlay) Settings() Settings { return o.settings }

// Length is the strip length the overlay was configured for
func (o *Overlay) Length() int { return o.length }

// Interval is the time in microseconds between positions
func (o *Overlay) Interval() uint64 { return o.interval }

// Steps is the number of positions in one full back and forth cycle
func (o *Overlay) Steps() int { return 2 * o.sweepLength }

func (o *Overlay) ActiveLength() int { return o.activeLength }

func (o *Overlay) FadeLength() int { return o.fadeLength }

// CurrentPos is the step within the cycle, in [0, Steps())
func (o *Overlay) CurrentPos() int { return o.currentPos }

// LastUpdate is the tick at which the current step began
func (o *Overlay) LastUpdate() uint64 { return o.lastUpdate }

// Now is the next output tick of the clock the sweep follows
func (o *Overlay) Now(src phase.Source) uint64 { return o.mode.NextUS(src) }

// Tick refreshes against the host clocks
func (o *Overlay) Tick(src phase.Source) bool { return o.Refresh(o.Now(src)) }

// Refresh reports whether the mask needs to be applied again. The first call
// after Configure always does. Later calls move at most one step regardless
// of how many intervals have passed.
func (o *Overlay) Refresh(now uint64) bool {
	if !o.settings.Enabled {
		return true
	}
	if !o.started {
		o.started = true
		o.lastUpdate = now
		if o.mode == phase.WallClock {
			// Follow the time of day so every controller is in step
			idx := o.cycle.Index(now)
			o.currentPos = int(idx/o.interval) % o.Steps()
			o.lastUpdate = now - idx%o.interval
		}
		return true
	}

	elapsed := phase.Elapsed(o.lastUpdate, now)
	if elapsed > math.MaxInt64 {
		// The clock went backwards, start timing again from here
		o.lastUpdate = now
		return false
	}
	if elapsed < o.interval {
		return false
	}
	o.currentPos = (o.currentPos + 1) % o.Steps()
	o.lastUpdate += o.interval
	return true
}

// Wait is how long until the next step is due, never more than one interval
func (o *Overlay) Wait(now uint64) time.Duration {
	if !o.settings.Enabled || !o.started {
		return 0
	}
	elapsed := phase.Elapsed(o.lastUpdate, now)
	if elapsed >= o.interval {
		return 0
	}
	return time.Duration(o.interval-elapsed) * time.Microsecond
}

// Position is the pixel at the centre of the bright window
func (o *Overlay) Position() int {
	p := o.currentPos
	if p >= o.sweepLength {
		p = 2*o.sweepLength - p
	}
	pos := o.activeLength + clampInt(p, 0, o.sweepLength-1) - 1
	return maxInt(o.activeLength, minInt(o.length-o.activeLength, pos))
}

// multiplier is the value scale at pixel i, ok is false outside the band
func (o *Overlay) multiplier(pos, i int) (mult float64, ok bool) {
	switch {
	case i >= pos-o.activeLength && i <= pos+o.activeLength:
		return 1, true
	case i >= pos-o.totalLength && i < pos-o.activeLength:
		return o.multipliers[pos-o.activeLength-i-1], true
	case i > pos+o.activeLength && i <= pos+o.totalLength:
		return o.multipliers[i-(pos+o.activeLength)-1], true
	}
	return 0, false
}

// ApplyMask returns a masked copy of values. Pixels in the skirts keep their
// representation with a scaled value, pixels outside the band become black.
func (o *Overlay) ApplyMask(values []colour.Colour) (masked []colour.Colour) {
	masked = make([]colour.Colour, len(values))
	if !o.settings.Enabled {
		copy(masked, values)
		return masked
	}

	pos := o.Position()
	for i, c := range values {
		mult, ok := o.multiplier(pos, i)
		_, isRGB := c.(colour.RGB)
		switch {
		case ok && mult == 1:
			masked[i] = c
		case ok:
			hsv := c.HSV()
			hsv.V *= mult
			if isRGB {
				masked[i] = hsv.RGB()
			} else {
				masked[i] = hsv
			}
		case isRGB:
			masked[i] = colour.RGB(0)
		default:
			masked[i] = colour.HSV{}
		}
	}
	return masked
}

// ApplyMaskRGB is ApplyMask for packed colours
func (o *Overlay) ApplyMaskRGB(values []colour.RGB) (masked []colour.RGB) {
	masked = make([]colour.RGB, len(values))
	if !o.settings.Enabled {
		copy(masked, values)
		return masked
	}

	pos := o.Position()
	for i, c := range values {
		mult, ok := o.multiplier(pos, i)
		switch {
		case ok && mult == 1:
			masked[i] = c
		case ok:
			hsv := c.HSV()
			hsv.V *= mult
			masked[i] = hsv.RGB()
		}
	}
	return masked
}

// DefaultOptions are the output defaults for a script using the sweep, the
// sweep paces itself so the sink adds no wait of its own
func (o *Overlay) DefaultOptions() model.Options {
	if !o.settings.Enabled {
		return model.Options{}
	}
	return model.Options{WaitUS: model.Int(0)}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	return maxInt(lo, minInt(hi, v))
}
