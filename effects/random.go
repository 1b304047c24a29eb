package effects

import (
	"math"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
	"github.com/TeamNorCal/coriolis/sweep"
)

// Random colour sources selected by the auto option
const (
	RandomFromSet  = 0 // pick from the colours set
	RandomPastel   = 1 // random exponential hue, saturation and value in [0.5,1], HDR profile
	RandomSaturate = 2 // random exponential hue at full saturation and value
)

// Random replaces count randomly chosen pixels with a new random colour so
// that every pixel changes on average once per duration
type Random struct {
	auto     int
	colours  []colour.RGB
	count    int
	interval uint64

	buffer    []colour.RGB
	positions []int
	last      uint64

	sweep sweep.Overlay
}

func (*Random) Name() string { return "random" }

func (*Random) Schema() config.Schema {
	return config.Schema{
		"auto":     config.S32Option(RandomFromSet),
		"colours":  config.SetRGBOption(0),
		"count":    config.S32Option(1),
		"duration": config.S32Option(10000),
	}.Merge(sweep.Schema(false))
}

func (r *Random) Configure(vals *config.Values, host generator.Host) {
	length := host.Length()

	r.auto = int(vals.Int("auto"))
	if r.auto < RandomFromSet || r.auto > RandomSaturate {
		r.auto = RandomFromSet
		vals.SetInt("auto", RandomFromSet)
	}
	r.colours = colours(vals, "colours")

	r.count = int(vals.Int("count"))
	if r.count <= 0 || r.count > length {
		r.count = length
	}
	duration := clampInt(vals, "duration", 0, math.MaxInt32)

	r.interval = 1
	if length > 0 {
		if interval := uint64(r.count) * uint64(duration) * 1000 / uint64(length); interval > 1 {
			r.interval = interval
		}
	}

	r.sweep.Configure(sweep.SettingsFrom(vals), length)

	defaults := r.sweep.DefaultOptions()
	switch r.auto {
	case RandomPastel:
		defaults.Profile = model.ProfileOf(model.ProfileHDR)
	case RandomSaturate:
		defaults.Profile = model.ProfileOf(model.ProfileNormal)
	}
	host.Defaults(defaults)

	r.buffer = make([]colour.RGB, length)
	r.positions = make([]int, length)
	for i := range r.buffer {
		r.positions[i] = i
		r.buffer[i] = r.generate(host, r.buffer[i])
	}
	r.last = host.Ticks64US()
}

// generate picks a new colour, avoiding without when choosing from a set
// with more than one member
func (r *Random) generate(host generator.Host, without colour.RGB) colour.RGB {
	rnd := host.Rand()
	switch r.auto {
	case RandomPastel:
		return colour.ExpHSVToRGB(rnd.Intn(colour.ExpHueRange), 0.5+rnd.Float64()*0.5, 0.5+rnd.Float64()*0.5)
	case RandomSaturate:
		return colour.ExpHSVToRGB(rnd.Intn(colour.ExpHueRange), 1, 1)
	}

	if len(r.colours) < 2 {
		return r.colours[rnd.Intn(len(r.colours))]
	}
	choices := make([]colour.RGB, 0, len(r.colours))
	for _, c := range r.colours {
		if c != without {
			choices = append(choices, c)
		}
	}
	if len(choices) == 0 {
		return without
	}
	return choices[rnd.Intn(len(choices))]
}

// replace changes count pixels, all of them when count covers the strip
func (r *Random) replace(host generator.Host, count int) {
	length := len(r.buffer)
	switch {
	case count <= 0 || length == 0:
		return
	case count == 1:
		pos := host.Rand().Intn(length)
		r.buffer[pos] = r.generate(host, r.buffer[pos])
	case count >= length:
		for i := range r.buffer {
			r.buffer[i] = r.generate(host, r.buffer[i])
		}
	default:
		// Partial shuffle, only the first count positions are needed
		rnd := host.Rand()
		for i := 0; i < count; i++ {
			j := i + rnd.Intn(length-i)
			r.positions[i], r.positions[j] = r.positions[j], r.positions[i]
		}
		for _, pos := range r.positions[:count] {
			r.buffer[pos] = r.generate(host, r.buffer[pos])
		}
	}
}

// change replaces one batch of pixels for every interval that has passed
func (r *Random) change(host generator.Host) {
	now := host.Ticks64US()
	elapsed := phase.Elapsed(r.last, now)
	if elapsed < r.interval {
		return
	}
	batches := elapsed / r.interval
	count := len(r.buffer)
	if batches < uint64(count) {
		count = minInt(int(batches)*r.count, count)
	}
	r.replace(host, count)
	r.last = now
}

func (r *Random) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	r.change(host)
	if !r.sweep.Enabled() {
		return generator.Frame{Colours: generator.FromRGB(r.buffer)}, 0
	}
	r.sweep.Tick(host)
	return generator.Frame{Colours: generator.FromRGB(r.sweep.ApplyMaskRGB(r.buffer))}, 0
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
