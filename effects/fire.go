package effects

import (
	"math"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/gradient"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
)

// Fire colour sources selected by the auto option
const (
	FireFromPalette = 0 // heat indexes a gradient built from the colours list
	FireHueFade     = 1 // heat ramps black, hue, white with the hue cycling
)

// Fire is the Fire2012 heat simulation, one step per frame
type Fire struct {
	auto     int
	palette  gradient.Table
	cooling  int
	sparking float64
	hueCycle phase.Cycle
	mode     phase.Mode

	heat []uint8
}

func (*Fire) Name() string { return "fire" }

func (*Fire) Schema() config.Schema {
	return config.Schema{
		"auto":         config.S32Option(FireFromPalette),
		"colours":      config.ListRGBOption(0),
		"fps":          config.S32Option(60),
		"cooling":      config.S32Option(55),
		"sparking":     config.FloatOption(0.47),
		"hue_duration": config.S32Option(25000),
		"real_time":    config.BoolOption(false),
	}
}

func (f *Fire) Configure(vals *config.Values, host generator.Host) {
	f.auto = int(vals.Int("auto"))
	if f.auto != FireFromPalette && f.auto != FireHueFade {
		f.auto = FireFromPalette
		vals.SetInt("auto", FireFromPalette)
	}
	f.palette = gradient.FromRGBList(256, colours(vals, "colours"))
	f.cooling = clampInt(vals, "cooling", 0, 255)
	f.sparking = vals.Float("sparking")
	f.hueCycle = phase.NewCycle(int64(clampInt(vals, "hue_duration", phase.MinDuration, math.MaxInt32)))
	f.mode = phase.ModeFor(vals.Bool("real_time"))

	fps := clampInt(vals, "fps", model.MinFPS, model.MaxFPS)
	host.Defaults(model.Options{FPS: model.Int(fps)})

	if len(f.heat) != host.Length() {
		f.heat = make([]uint8, host.Length())
	}
}

// step advances the simulation by one frame
func (f *Fire) step(host generator.Host) {
	rnd := host.Rand()
	length := len(f.heat)
	if length == 0 {
		return
	}

	// Cool every cell a little
	for i := range f.heat {
		f.heat[i] = qsub8(f.heat[i], rnd.Intn(f.cooling*10/length+3))
	}

	// Heat drifts up and diffuses
	for k := length - 1; k >= 2; k-- {
		f.heat[k] = uint8((int(f.heat[k-1]) + 2*int(f.heat[k-2])) / 3)
	}

	// Randomly ignite new sparks near the bottom
	if rnd.Float64() < f.sparking {
		y := rnd.Intn(minInt(7, length-1) + 1)
		f.heat[y] = qadd8(f.heat[y], 160+rnd.Intn(96))
	}
}

// colour maps the heat of one cell
func (f *Fire) colour(heat uint8, expHue int) colour.Colour {
	h := int(heat) * 240 / 255
	if f.auto == FireFromPalette {
		return f.palette.RGB(h)
	}

	ramp := float64(h&63) / 64
	switch {
	case h < 64:
		return colour.ExpHSV(expHue, 1, float64(h)/64*0.75)
	case h < 128:
		return colour.ExpHSV(expHue, 1-ramp*0.5, 0.75+ramp*0.25)
	case h < 192:
		return colour.ExpHSV(expHue, 0.5-ramp*0.5, 1)
	}
	return colour.ExpHSV(0, 0, 1-ramp)
}

func (f *Fire) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	f.step(host)

	expHue := 0
	if f.auto == FireHueFade {
		expHue = int(uint64(colour.ExpHueRange) * f.hueCycle.Index(f.mode.NextMS(host)) / f.hueCycle.Duration)
	}
	values := make([]colour.Colour, len(f.heat))
	for i, heat := range f.heat {
		values[i] = f.colour(heat, expHue)
	}
	return generator.Frame{Colours: generator.NewSlice(values)}, 0
}

func qadd8(a uint8, b int) uint8 {
	if s := int(a) + b; s < 255 {
		return uint8(s)
	}
	return 255
}

func qsub8(a uint8, b int) uint8 {
	if d := int(a) - b; d > 0 {
		return uint8(d)
	}
	return 0
}
