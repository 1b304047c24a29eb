package effects

import (
	"math"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
)

// BurstDurationPerLEDUS is the time a burst spends on each pixel at speed 1
const BurstDurationPerLEDUS = 18727

// Burst sends groups of faded colour bursts along the strip separated by a
// short blank gap. Each group uses the next colours from the list.
type Burst struct {
	colours   []colour.RGB
	number    int
	fadeRate1 float64
	fadeRateN float64
	mode      phase.Mode
	empty     bool

	fade           int
	fadeActive     int
	fadeActiveFade int
	burstLength    int
	blankLength    int

	burstDuration uint64
	totalBurst    uint64
	total         uint64
	interval      uint64

	stream burstStream
}

func (*Burst) Name() string { return "burst" }

func (*Burst) Schema() config.Schema {
	return config.Schema{
		"colours":    config.ListRGBOption(0),
		"number":     config.S32Option(3),
		"fade_rate1": config.FloatOption(0.5),
		"fade_rateN": config.FloatOption(0.75),
		"speed":      config.FloatOption(1),
		"duration":   config.NullS32Option(), // ms for one full cycle, overrides speed
		"real_time":  config.BoolOption(false),
	}
}

func (b *Burst) Configure(vals *config.Values, host generator.Host) {
	length := host.Length()

	b.colours = colours(vals, "colours")
	b.number = clampInt(vals, "number", 1, int32(maxInt(1, length)))
	b.fadeRate1 = vals.Float("fade_rate1")
	b.fadeRateN = vals.Float("fade_rateN")
	b.mode = phase.ModeFor(vals.Bool("real_time"))

	active := length / (2 + b.number) / 3
	b.fade = length / (2 + b.number) / 6
	b.fadeActive = b.fade + active + 1 + active
	b.fadeActiveFade = b.fadeActive + b.fade
	b.burstLength = maxInt(1, (b.fade+active+length)/b.number)
	b.blankLength = 1 + length/9 + length/18

	duration, hasDuration := vals.OptionalInt("duration")
	if hasDuration && duration == 1 {
		duration = 2
		vals.SetInt("duration", duration)
	}
	b.empty = hasDuration && duration <= 0

	steps := float64(b.burstLength*b.number + b.blankLength)
	if hasDuration && !b.empty {
		b.interval = uint64(math.Max(1, math.Round(float64(duration)*1000/steps)))
	} else {
		b.interval = uint64(math.Max(1, math.Round(BurstDurationPerLEDUS/math.Max(1e-10, vals.Float("speed")))))
	}

	b.burstDuration = uint64(b.burstLength) * b.interval
	b.totalBurst = b.burstDuration * uint64(b.number)
	b.total = b.totalBurst + uint64(b.blankLength)*b.interval

	host.Defaults(model.Options{Reverse: model.Bool(true)})
}

func (b *Burst) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	if b.empty {
		return generator.Frame{Colours: generator.NewSlice(nil)}, 0
	}

	next := b.mode.NextUS(host)
	current := next % b.total

	b.stream = burstStream{
		burst:     b,
		colourIdx: int((next / b.total) * uint64(b.number) % uint64(len(b.colours))),
	}
	if current < b.totalBurst {
		b.stream.burstIdx = int(current / b.burstDuration)
		b.stream.pos = int(current % b.burstDuration / b.interval)
	} else {
		b.stream.burstIdx = b.number
		b.stream.pos = int((current - b.totalBurst) / b.interval)
	}
	return generator.Frame{Colours: &b.stream}, 0
}

// burstStream walks the endless sequence of bursts and blanks starting from
// the position of the current frame
type burstStream struct {
	burst     *Burst
	colourIdx int
	burstIdx  int // b.number while in the blank gap
	pos       int
}

func (s *burstStream) Next() (c colour.Colour, ok bool) {
	b := s.burst
	for {
		if s.burstIdx >= b.number {
			if s.pos < b.blankLength {
				s.pos++
				return colour.RGB(0), true
			}
			s.burstIdx = 0
			s.pos = 0
			s.colourIdx += b.number
			continue
		}
		if s.pos < b.burstLength {
			break
		}
		s.burstIdx++
		s.pos = 0
	}

	base := b.colours[(s.colourIdx+s.burstIdx)%len(b.colours)]
	pos := s.pos
	s.pos++

	switch {
	case pos < b.fade:
		return b.faded(base, b.fade-pos-1), true
	case pos < b.fadeActive:
		return base, true
	case pos < b.fadeActiveFade:
		return b.faded(base, pos-b.fadeActive), true
	}
	return colour.RGB(0), true
}

// faded scales the value of c by fade_rate1 * fade_rateN^power
func (b *Burst) faded(c colour.RGB, power int) colour.RGB {
	hsv := c.HSV()
	hsv.V *= b.fadeRate1 * math.Pow(b.fadeRateN, float64(power))
	return hsv.RGB()
}
